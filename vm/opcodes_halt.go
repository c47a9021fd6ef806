package vm

func opStop(f *Frame, evm *EVM, instr *Instruction) error {
	f.Output = nil
	return ErrStop
}

func opReturn(f *Frame, evm *EVM, instr *Instruction) error {
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	f.Output = f.Memory.Get(offset.Uint64(), size.Uint64())
	return ErrReturn
}

func opRevert(f *Frame, evm *EVM, instr *Instruction) error {
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	f.Output = f.Memory.Get(offset.Uint64(), size.Uint64())
	return ErrRevert
}

// opSelfdestruct hands the beneficiary address to the EVM for balance
// transfer and journaling; gas accounting (new-account surcharge) happens
// in DynamicGas, before Execute ever runs.
func opSelfdestruct(f *Frame, evm *EVM, instr *Instruction) error {
	beneficiaryWord, _ := f.Stack.Pop()
	if err := evm.selfDestruct(f, wordToAddress(&beneficiaryWord)); err != nil {
		return err
	}
	return ErrStop
}
