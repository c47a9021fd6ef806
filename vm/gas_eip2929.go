package vm

import "github.com/lattice-vm/evmcore/core/types"

// accessAddressGas returns the EIP-2929 gas charge for touching addr: cold
// the first time in a transaction, warm afterwards. Pre-Berlin forks use a
// flat legacyGas regardless of warmth.
func accessAddressGas(evm *EVM, addr types.Address, legacyGas uint64) uint64 {
	if !evm.Config.IsBerlin {
		return legacyGas
	}
	if evm.accessList.AddAddress(addr) {
		return WarmStorageReadCost
	}
	return ColdAccountAccessCost
}

// accessSlotGas is accessAddressGas's storage-slot counterpart, used by
// SLOAD.
func accessSlotGas(evm *EVM, addr types.Address, slot types.Hash, legacyGas uint64) uint64 {
	if !evm.Config.IsBerlin {
		return legacyGas
	}
	_, slotWarm := evm.accessList.AddSlot(addr, slot)
	if slotWarm {
		return WarmStorageReadCost
	}
	return ColdSloadCost
}
