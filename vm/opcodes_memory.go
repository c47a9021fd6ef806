package vm

import (
	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/crypto"
)

func opKeccak256(f *Frame, evm *EVM, instr *Instruction) error {
	offset, _ := f.Stack.Pop()
	size := f.Stack.Peek()
	data := f.Memory.Get(offset.Uint64(), size.Uint64())
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil
}

func gasKeccak256(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	length := stack.Back(1)
	if !length.IsUint64() {
		return 0, ErrOutOfOffset
	}
	return safeMul(GasKeccak256Word, toWordSize(length.Uint64())), nil
}

func opPop(f *Frame, evm *EVM, instr *Instruction) error {
	_, err := f.Stack.Pop()
	return err
}

func opMload(f *Frame, evm *EVM, instr *Instruction) error {
	off := f.Stack.Peek()
	offset := off.Uint64()
	off.SetBytes(f.Memory.GetPtr(offset, 32))
	return nil
}

func opMstore(f *Frame, evm *EVM, instr *Instruction) error {
	offsetWord, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	f.Memory.Set32(offsetWord.Uint64(), &val)
	return nil
}

func opMstore8(f *Frame, evm *EVM, instr *Instruction) error {
	offsetWord, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	f.Memory.store[offsetWord.Uint64()] = byte(val.Uint64())
	return nil
}

func opMsize(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(uint64(f.Memory.Len()))
	return f.Stack.Push(&v)
}

func opMcopy(f *Frame, evm *EVM, instr *Instruction) error {
	dst, _ := f.Stack.Pop()
	src, _ := f.Stack.Pop()
	length, _ := f.Stack.Pop()
	f.Memory.Copy(dst.Uint64(), src.Uint64(), length.Uint64())
	return nil
}

func opPc(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(instr.PC)
	return f.Stack.Push(&v)
}

func opGas(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(f.Gas + instr.GasCorrection)
	return f.Stack.Push(&v)
}

func opJumpdest(f *Frame, evm *EVM, instr *Instruction) error {
	return nil
}

func opInvalid(f *Frame, evm *EVM, instr *Instruction) error {
	return ErrInvalidOpcode
}

// gasMcopy charges 3 gas per 32-byte word copied, in addition to memory
// expansion (EIP-5656).
func gasMcopy(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	length := stack.Back(2)
	if !length.IsUint64() {
		return 0, ErrOutOfOffset
	}
	return safeMul(GasCopyWord, toWordSize(length.Uint64())), nil
}

func memSizeMcopy(stack *Stack) (uint64, uint64, error) {
	dst := stack.Back(0)
	src := stack.Back(1)
	length := stack.Back(2)
	if length.IsZero() {
		return 0, 0, nil
	}
	if !dst.IsUint64() || !src.IsUint64() || !length.IsUint64() {
		return 0, 0, ErrOutOfOffset
	}
	d, s, l := dst.Uint64(), src.Uint64(), length.Uint64()
	end := d
	if s > end {
		end = s
	}
	return 0, end + l, nil
}
