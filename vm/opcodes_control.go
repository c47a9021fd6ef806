package vm

// opJump and opJumpi resolve their target themselves and signal the
// dispatch loop via errJumped so it does not also advance f.IP.
func opJump(f *Frame, evm *EVM, instr *Instruction) error {
	// On the fused path the destination-providing PUSH was tombstoned to a
	// no-op by resolveJumpTargets, so no word was pushed for it -- popping
	// here would steal a live stack value from beneath this instruction.
	if instr.JumpIdx >= 0 {
		f.IP = instr.JumpIdx
		return errJumped
	}
	dest, _ := f.Stack.Pop()
	idx, err := f.Analysis.ResolveJumpDest(&dest)
	if err != nil {
		return err
	}
	f.IP = idx
	return errJumped
}

func opJumpi(f *Frame, evm *EVM, instr *Instruction) error {
	if instr.JumpIdx >= 0 {
		cond, _ := f.Stack.Pop()
		if cond.IsZero() {
			return nil
		}
		f.IP = instr.JumpIdx
		return errJumped
	}
	dest, _ := f.Stack.Pop()
	cond, _ := f.Stack.Pop()
	if cond.IsZero() {
		return nil
	}
	idx, err := f.Analysis.ResolveJumpDest(&dest)
	if err != nil {
		return err
	}
	f.IP = idx
	return errJumped
}

// makeDupHandler returns the DUPn handler, n in [1,16].
func makeDupHandler(n int) opHandler {
	return func(f *Frame, evm *EVM, instr *Instruction) error {
		return f.Stack.Dup(n)
	}
}

// makeSwapHandler returns the SWAPn handler, n in [1,16].
func makeSwapHandler(n int) opHandler {
	return func(f *Frame, evm *EVM, instr *Instruction) error {
		return f.Stack.Swap(n)
	}
}
