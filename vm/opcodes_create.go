package vm

import (
	"context"

	"github.com/holiman/uint256"
)

func makeCreateHandler(kind CallKind) opHandler {
	return func(f *Frame, evm *EVM, instr *Instruction) error {
		value, _ := f.Stack.Pop()
		offset, _ := f.Stack.Pop()
		size, _ := f.Stack.Pop()

		var salt uint256.Int
		if kind == CallKindCreate2 {
			s, _ := f.Stack.Pop()
			salt = s
		}

		initcode := f.Memory.Get(offset.Uint64(), size.Uint64())

		childGas := f.Gas - f.Gas/CallGasFraction
		if err := f.UseGas(childGas); err != nil {
			return err
		}

		params := &CallParams{
			Kind:    kind,
			Caller:  f.Address,
			Input:   initcode,
			Value:   &value,
			Gas:     childGas,
			Salt:    &salt,
		}
		res := evm.Call(context.Background(), params)
		f.Gas += res.GasLeft

		var addrWord uint256.Int
		if res.Err == nil {
			addrWord = addressToWord(res.CreatedAt)
			f.ReturnData = nil
		} else {
			f.ReturnData = res.Output
		}
		return f.Stack.Push(&addrWord)
	}
}

// gasCreate charges EIP-3860's per-word initcode cost (Shanghai onward;
// zero before). CREATE2's extra keccak256-over-initcode cost uses the same
// word count.
func gasCreate(kind CallKind) gasFunc {
	return func(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
		size := stack.Back(2)
		if !size.IsUint64() {
			return 0, ErrOutOfOffset
		}
		words := toWordSize(size.Uint64())
		var cost uint64
		if evm.Config.IsShanghai {
			cost = safeMul(InitCodeWordGas, words)
		}
		if kind == CallKindCreate2 {
			cost = safeAdd(cost, safeMul(GasKeccak256Word, words))
		}
		return cost, nil
	}
}

func memSizeCreate(stack *Stack) (uint64, uint64, error) {
	return memSizeOffsetLen(1, 2)(stack)
}
