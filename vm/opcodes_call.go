package vm

import (
	"context"

	"github.com/holiman/uint256"
)

// callGas applies the EIP-150 63/64 rule: at most all-but-one-64th of the
// gas remaining after paying for the CALL instruction itself may be
// forwarded, and no more than the operand the caller requested.
func callGas(rules ForkRules, available, requested uint64) uint64 {
	if !rules.IsEIP150 {
		return requested
	}
	capped := available - available/CallGasFraction
	if requested > capped {
		return capped
	}
	return requested
}

func makeCallHandler(kind CallKind) opHandler {
	return func(f *Frame, evm *EVM, instr *Instruction) error {
		gasWord, _ := f.Stack.Pop()
		addrWord, _ := f.Stack.Pop()

		var value uint256.Int
		if kind == CallKindCall || kind == CallKindCallCode {
			v, _ := f.Stack.Pop()
			value = v
		}

		// A value-bearing CALL/CALLCODE issued from a read-only frame must
		// abort the frame outright, not push 0 and let execution continue:
		// evm.Call only learns about this frame's static-ness through
		// params.IsStatic below, by which point it can no longer unwind the
		// interpreter loop itself.
		if f.IsStatic && !value.IsZero() && (kind == CallKindCall || kind == CallKindCallCode) {
			return ErrWriteProtection
		}

		inOffset, _ := f.Stack.Pop()
		inSize, _ := f.Stack.Pop()
		outOffset, _ := f.Stack.Pop()
		outSize, _ := f.Stack.Pop()

		addr := wordToAddress(&addrWord)
		input := f.Memory.Get(inOffset.Uint64(), inSize.Uint64())

		requested := f.Gas
		if gasWord.IsUint64() {
			requested = gasWord.Uint64()
		}
		childGas := callGas(evm.Config, f.Gas, requested)
		// Only the forwarded amount is deducted from this frame; the stipend
		// for a value transfer is added on top afterwards, so it is never
		// billed against the caller's own gas. Whatever the child leaves
		// unused (stipend included) is topped back up from res.GasLeft below.
		if err := f.UseGas(childGas); err != nil {
			return err
		}
		if !value.IsZero() && (kind == CallKindCall || kind == CallKindCallCode) {
			childGas += CallStipend
		}

		params := &CallParams{
			Kind:     kind,
			Caller:   f.Address,
			Address:  addr,
			Input:    input,
			Value:    &value,
			Gas:      childGas,
			IsStatic: f.IsStatic,
		}
		res := evm.Call(context.Background(), params)
		f.Gas += res.GasLeft

		f.ReturnData = res.Output
		if res.Output != nil && outSize.Uint64() > 0 {
			f.Memory.Set(outOffset.Uint64(), getDataSlice(res.Output, 0, outSize.Uint64()))
		}

		var success uint256.Int
		if res.Err == nil {
			success.SetOne()
		}
		return f.Stack.Push(&success)
	}
}

// gasCallFamily computes the constant-ish portion of CALL/CALLCODE/
// DELEGATECALL/STATICCALL gas: EIP-2929 access cost for the target, plus
// value-transfer and new-account surcharges for CALL/CALLCODE.
func gasCallFamily(kind CallKind) gasFunc {
	return func(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
		addr := wordToAddress(stack.Back(1))
		cost := accessAddressGas(evm, addr, GasCallLegacy)

		if kind == CallKindCall || kind == CallKindCallCode {
			value := stack.Back(2)
			if !value.IsZero() {
				cost = safeAdd(cost, CallValueTransferGas)
				if kind == CallKindCall && !evm.Host.Exist(addr) {
					cost = safeAdd(cost, CallNewAccountGas)
				}
			}
		}
		return cost, nil
	}
}

func memSizeCall(kind CallKind) memorySizeFunc {
	inOffsetIdx, inSizeIdx, outOffsetIdx, outSizeIdx := 3, 4, 5, 6
	if kind == CallKindDelegateCall || kind == CallKindStaticCall {
		inOffsetIdx, inSizeIdx, outOffsetIdx, outSizeIdx = 2, 3, 4, 5
	}
	return func(stack *Stack) (uint64, uint64, error) {
		inOff, inSize, err := memSizeOffsetLen(inOffsetIdx, inSizeIdx)(stack)
		if err != nil {
			return 0, 0, err
		}
		outOff, outSize, err := memSizeOffsetLen(outOffsetIdx, outSizeIdx)(stack)
		if err != nil {
			return 0, 0, err
		}
		inEnd := inOff + inSize
		outEnd := outOff + outSize
		if outEnd > inEnd {
			return 0, outEnd, nil
		}
		return 0, inEnd, nil
	}
}
