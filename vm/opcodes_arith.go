package vm

// Arithmetic, comparison, and bitwise opcodes operate purely on the stack.
// Signed variants interpret the same bits as two's complement; DIV/MOD/SDIV
// /SMOD by zero yield 0 rather than trapping, per the Yellow Paper.
//
// Every handler below follows the same shape: pop the first operand (the
// one that was on top of the stack), peek the second (now the new top,
// doubling as the in-place destination), and write x OP y back into y so
// the result ends up exactly where the stack expects it with no extra
// push. Getting x and y backwards silently flips every non-commutative
// opcode, so the pop-then-peek order here must track the operand order an
// opcode's definition gives (first operand on top).

func opAdd(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Add(&x, y)
	return nil
}

func opMul(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Mul(&x, y)
	return nil
}

func opSub(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Sub(&x, y)
	return nil
}

func opDiv(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Div(&x, y)
	return nil
}

func opSdiv(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.SDiv(&x, y)
	return nil
}

func opMod(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Mod(&x, y)
	return nil
}

func opSmod(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.SMod(&x, y)
	return nil
}

func opAddmod(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	z := f.Stack.Peek()
	if z.IsZero() {
		z.Clear()
	} else {
		z.AddMod(&x, &y, z)
	}
	return nil
}

func opMulmod(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y, _ := f.Stack.Pop()
	z := f.Stack.Peek()
	if z.IsZero() {
		z.Clear()
	} else {
		z.MulMod(&x, &y, z)
	}
	return nil
}

func opExp(f *Frame, evm *EVM, instr *Instruction) error {
	base, _ := f.Stack.Pop()
	exponent := f.Stack.Peek()
	exponent.Exp(&base, exponent)
	return nil
}

func opSignExtend(f *Frame, evm *EVM, instr *Instruction) error {
	back, _ := f.Stack.Pop()
	num := f.Stack.Peek()
	num.ExtendSign(num, &back)
	return nil
}

func opLt(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opGt(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opSlt(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opSgt(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opEq(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opIszero(f *Frame, evm *EVM, instr *Instruction) error {
	x := f.Stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil
}

func opAnd(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.And(&x, y)
	return nil
}

func opOr(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Or(&x, y)
	return nil
}

func opXor(f *Frame, evm *EVM, instr *Instruction) error {
	x, _ := f.Stack.Pop()
	y := f.Stack.Peek()
	y.Xor(&x, y)
	return nil
}

func opNot(f *Frame, evm *EVM, instr *Instruction) error {
	x := f.Stack.Peek()
	x.Not(x)
	return nil
}

func opByte(f *Frame, evm *EVM, instr *Instruction) error {
	th, _ := f.Stack.Pop()
	val := f.Stack.Peek()
	val.Byte(&th)
	return nil
}

func opShl(f *Frame, evm *EVM, instr *Instruction) error {
	shift, _ := f.Stack.Pop()
	val := f.Stack.Peek()
	if shift.LtUint64(256) {
		val.Lsh(val, uint(shift.Uint64()))
	} else {
		val.Clear()
	}
	return nil
}

func opShr(f *Frame, evm *EVM, instr *Instruction) error {
	shift, _ := f.Stack.Pop()
	val := f.Stack.Peek()
	if shift.LtUint64(256) {
		val.Rsh(val, uint(shift.Uint64()))
	} else {
		val.Clear()
	}
	return nil
}

func opSar(f *Frame, evm *EVM, instr *Instruction) error {
	shift, _ := f.Stack.Pop()
	val := f.Stack.Peek()
	if shift.GtUint64(256) {
		if val.Sign() >= 0 {
			val.Clear()
		} else {
			val.SetAllOne()
		}
		return nil
	}
	n := uint(shift.Uint64())
	val.SRsh(val, n)
	return nil
}
