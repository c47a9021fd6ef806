package vm

import "github.com/lattice-vm/evmcore/core/types"

func opSload(f *Frame, evm *EVM, instr *Instruction) error {
	loc := f.Stack.Peek()
	key := wordToHash(loc)
	val := evm.Host.GetState(f.Address, key)
	w := hashToWord(val)
	loc.Set(&w)
	return nil
}

func gasSload(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	key := wordToHash(stack.Back(0))
	return accessSlotGas(evm, f.Address, key, GasSloadLegacyFor(evm.Config)), nil
}

// GasSloadLegacyFor returns the flat SLOAD cost for pre-Berlin forks
// (Istanbul's EIP-1884 repriced it from 200 to 800).
func GasSloadLegacyFor(r ForkRules) uint64 {
	if r.IsIstanbul {
		return GasSloadEIP1884
	}
	if r.IsEIP150 {
		return GasSloadEIP150
	}
	return GasSloadLegacy
}

func opSstore(f *Frame, evm *EVM, instr *Instruction) error {
	loc, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	key := wordToHash(&loc)
	newVal := wordToHash(&val)
	evm.Host.SetState(f.Address, key, newVal)
	return nil
}

// gasSstore implements the EIP-2200/2929/3529 net-metered SSTORE gas
// formula, including the EIP-2929 cold-slot surcharge and the refund
// adjustments a pure "charge gas" function would not otherwise make.
// Pre-Istanbul forks (no net metering) fall back to the flat legacy table.
func gasSstore(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	if f.Gas <= CallStipend {
		return 0, ErrOutOfGas
	}

	key := wordToHash(stack.Back(0))
	newVal := wordToHash(stack.Back(1))

	if !evm.Config.IsIstanbul {
		return gasSstoreLegacy(f, evm, key, newVal)
	}

	var cost uint64
	warm := evm.accessList.IsWarmSlot(f.Address, key)
	if evm.Config.IsBerlin && !warm {
		evm.accessList.AddSlot(f.Address, key)
		cost = ColdSloadCost
	}

	current := evm.Host.GetState(f.Address, key)
	if current == newVal {
		return cost + WarmStorageReadCost, nil
	}

	original := evm.Host.GetCommittedState(f.Address, key)
	if current == original {
		if original == (types.Hash{}) {
			return cost + SstoreSetGas, nil
		}
		if newVal == (types.Hash{}) {
			evm.refunds.Add(sstoreClearRefund(evm.Config))
		}
		return cost + sstoreResetGas(evm.Config), nil
	}

	// Dirty slot: someone already changed it this transaction.
	if original != (types.Hash{}) {
		if current == (types.Hash{}) {
			evm.refunds.Sub(sstoreClearRefund(evm.Config))
		}
		if newVal == (types.Hash{}) {
			evm.refunds.Add(sstoreClearRefund(evm.Config))
		}
	}
	if original == newVal {
		if original == (types.Hash{}) {
			evm.refunds.Add(SstoreSetGas - WarmStorageReadCost)
		} else {
			evm.refunds.Add(sstoreResetGas(evm.Config) - WarmStorageReadCost)
		}
	}
	return cost + WarmStorageReadCost, nil
}

func sstoreResetGas(r ForkRules) uint64 {
	if r.IsBerlin {
		return SstoreResetGasEIP2929
	}
	return SstoreResetGas
}

func sstoreClearRefund(r ForkRules) uint64 {
	if r.IsLondon {
		return SstoreClearsScheduleRefund
	}
	return SstoreClearRefund
}

// gasSstoreLegacy is the pre-Istanbul (Frontier through Constantinople,
// excluding the reverted Constantinople net-metering window) flat-cost
// SSTORE formula: SSTORE_SET_GAS for a zero-to-nonzero write,
// SSTORE_RESET_GAS for any other write, with a flat refund for clearing a
// slot to zero.
func gasSstoreLegacy(f *Frame, evm *EVM, key, newVal types.Hash) (uint64, error) {
	current := evm.Host.GetState(f.Address, key)
	if current == (types.Hash{}) && newVal != (types.Hash{}) {
		return SstoreSetGas, nil
	}
	if current != (types.Hash{}) && newVal == (types.Hash{}) {
		evm.refunds.Add(SstoreClearRefund)
	}
	return SstoreResetGas, nil
}

func opTload(f *Frame, evm *EVM, instr *Instruction) error {
	loc := f.Stack.Peek()
	key := wordToHash(loc)
	val := evm.Host.GetTransientState(f.Address, key)
	w := hashToWord(val)
	loc.Set(&w)
	return nil
}

func opTstore(f *Frame, evm *EVM, instr *Instruction) error {
	loc, _ := f.Stack.Pop()
	val, _ := f.Stack.Pop()
	evm.Host.SetTransientState(f.Address, wordToHash(&loc), wordToHash(&val))
	return nil
}
