package vm

import "github.com/lattice-vm/evmcore/core/types"

type slotKey struct {
	addr types.Address
	slot types.Hash
}

// accessListJournalEntry records one warm-set addition so it can be undone
// on revert; it is not visible outside this file.
type accessListJournalEntry struct {
	addr    *types.Address // set for an address addition
	slotKey *slotKey       // set for a storage-key addition
}

// AccessList tracks which addresses and storage slots have been touched
// during the current transaction, for EIP-2929 warm/cold gas pricing.
// Pre-Berlin callers simply never consult it (IsWarmAddress/IsWarmSlot
// always report everything as cold in that case, via the gas calculator
// checking ForkRules.IsBerlin before looking here at all).
type AccessList struct {
	addresses map[types.Address]bool
	slots     map[slotKey]bool
	journal   []accessListJournalEntry
}

// NewAccessList returns an empty tracker.
func NewAccessList() *AccessList {
	return &AccessList{
		addresses: make(map[types.Address]bool),
		slots:     make(map[slotKey]bool),
	}
}

// AddAddress marks addr warm, returning whether it was already warm.
func (al *AccessList) AddAddress(addr types.Address) (wasWarm bool) {
	if al.addresses[addr] {
		return true
	}
	al.addresses[addr] = true
	al.journal = append(al.journal, accessListJournalEntry{addr: &addr})
	return false
}

// AddSlot marks (addr, slot) warm, also marking addr itself warm as a side
// effect (per EIP-2929, accessing a slot implies accessing its account).
// Returns whether the address and the slot were already warm.
func (al *AccessList) AddSlot(addr types.Address, slot types.Hash) (addrWasWarm, slotWasWarm bool) {
	addrWasWarm = al.AddAddress(addr)
	k := slotKey{addr, slot}
	if al.slots[k] {
		return addrWasWarm, true
	}
	al.slots[k] = true
	al.journal = append(al.journal, accessListJournalEntry{slotKey: &k})
	return addrWasWarm, false
}

func (al *AccessList) IsWarmAddress(addr types.Address) bool { return al.addresses[addr] }

func (al *AccessList) IsWarmSlot(addr types.Address, slot types.Hash) bool {
	return al.slots[slotKey{addr, slot}]
}

// Snapshot returns a mark that Revert can roll back to.
func (al *AccessList) Snapshot() int { return len(al.journal) }

// Revert undoes every warm-set addition recorded since mark.
func (al *AccessList) Revert(mark int) {
	for i := len(al.journal) - 1; i >= mark; i-- {
		e := al.journal[i]
		if e.addr != nil {
			delete(al.addresses, *e.addr)
		}
		if e.slotKey != nil {
			delete(al.slots, *e.slotKey)
		}
	}
	al.journal = al.journal[:mark]
}

// PreloadAccessList warms every address and storage key from an EIP-2930
// access list, plus the sender, the destination, and (post-Shanghai) the
// coinbase: the pre-execution warming step of a transaction. The EVM does
// not call it itself; the embedder calls it before the first CALL/CREATE.
func (evm *EVM) PreloadAccessList(sender, dest types.Address, list types.AccessList) {
	evm.accessList.AddAddress(sender)
	evm.accessList.AddAddress(dest)
	if evm.Config.IsShanghai {
		evm.accessList.AddAddress(evm.Block.Coinbase)
	}
	for _, tuple := range list {
		evm.accessList.AddAddress(tuple.Address)
		for _, key := range tuple.StorageKeys {
			evm.accessList.AddSlot(tuple.Address, key)
		}
	}
}
