package vm

import (
	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
	"github.com/lattice-vm/evmcore/crypto"
)

type memAccount struct {
	balance *uint256.Int
	nonce   uint64
	code    []byte
	codeHash types.Hash
	storage  map[types.Hash]types.Hash
	transient map[types.Hash]types.Hash
	committed map[types.Hash]types.Hash
	destructed bool
}

func newMemAccount() *memAccount {
	return &memAccount{
		balance:   new(uint256.Int),
		codeHash:  types.EmptyCodeHash,
		storage:   make(map[types.Hash]types.Hash),
		transient: make(map[types.Hash]types.Hash),
		committed: make(map[types.Hash]types.Hash),
	}
}

// MemHost is a minimal in-memory Host, suitable for the evmrun CLI and for
// package tests that need a full Host without a trie or disk backend.
// Snapshotting is a deep copy of the account set; adequate for tests and
// single-shot CLI runs, not for production transaction throughput.
type MemHost struct {
	accounts    map[types.Address]*memAccount
	logs        []*types.Log
	blockHashes map[uint64]types.Hash
	precompiles *PrecompileRegistry
	snapshots   []map[types.Address]*memAccount
}

// NewMemHost returns an empty MemHost.
func NewMemHost(precompiles *PrecompileRegistry) *MemHost {
	return &MemHost{
		accounts:    make(map[types.Address]*memAccount),
		blockHashes: make(map[uint64]types.Hash),
		precompiles: precompiles,
	}
}

func (h *MemHost) account(addr types.Address) *memAccount {
	a, ok := h.accounts[addr]
	if !ok {
		a = newMemAccount()
		h.accounts[addr] = a
	}
	return a
}

// SetBalance seeds an account's starting balance (test/CLI setup only).
func (h *MemHost) SetBalance(addr types.Address, v *uint256.Int) {
	h.account(addr).balance = v.Clone()
}

func (h *MemHost) GetBalance(addr types.Address) *uint256.Int { return h.account(addr).balance.Clone() }

func (h *MemHost) AddBalance(addr types.Address, amount *uint256.Int) {
	a := h.account(addr)
	a.balance.Add(a.balance, amount)
}

func (h *MemHost) SubBalance(addr types.Address, amount *uint256.Int) {
	a := h.account(addr)
	a.balance.Sub(a.balance, amount)
}

func (h *MemHost) GetCode(addr types.Address) []byte { return h.account(addr).code }

func (h *MemHost) SetCode(addr types.Address, code []byte) {
	a := h.account(addr)
	a.code = code
	if len(code) == 0 {
		a.codeHash = types.EmptyCodeHash
		return
	}
	a.codeHash = crypto.Keccak256Hash(code)
}

func (h *MemHost) GetCodeHash(addr types.Address) types.Hash { return h.account(addr).codeHash }

func (h *MemHost) GetCodeSize(addr types.Address) int { return len(h.account(addr).code) }

func (h *MemHost) GetState(addr types.Address, key types.Hash) types.Hash {
	return h.account(addr).storage[key]
}

func (h *MemHost) SetState(addr types.Address, key, value types.Hash) {
	h.account(addr).storage[key] = value
}

func (h *MemHost) GetCommittedState(addr types.Address, key types.Hash) types.Hash {
	return h.account(addr).committed[key]
}

func (h *MemHost) GetTransientState(addr types.Address, key types.Hash) types.Hash {
	return h.account(addr).transient[key]
}

func (h *MemHost) SetTransientState(addr types.Address, key, value types.Hash) {
	h.account(addr).transient[key] = value
}

func (h *MemHost) Exist(addr types.Address) bool {
	_, ok := h.accounts[addr]
	return ok
}

func (h *MemHost) Empty(addr types.Address) bool {
	a, ok := h.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

func (h *MemHost) CreateAccount(addr types.Address) { h.account(addr) }

func (h *MemHost) GetNonce(addr types.Address) uint64 { return h.account(addr).nonce }

func (h *MemHost) SetNonce(addr types.Address, nonce uint64) { h.account(addr).nonce = nonce }

func (h *MemHost) SelfDestruct(addr, beneficiary types.Address) error {
	a := h.account(addr)
	ben := h.account(beneficiary)
	ben.balance.Add(ben.balance, a.balance)
	a.balance = new(uint256.Int)
	a.destructed = true
	return nil
}

func (h *MemHost) HasSelfDestructed(addr types.Address) bool { return h.account(addr).destructed }

func (h *MemHost) AddLog(log *types.Log) { h.logs = append(h.logs, log) }

func (h *MemHost) Logs() []*types.Log { return h.logs }

func (h *MemHost) Snapshot() int {
	snap := make(map[types.Address]*memAccount, len(h.accounts))
	for addr, a := range h.accounts {
		cp := *a
		cp.balance = a.balance.Clone()
		cp.storage = cloneStorage(a.storage)
		cp.transient = cloneStorage(a.transient)
		cp.committed = cloneStorage(a.committed)
		snap[addr] = &cp
	}
	h.snapshots = append(h.snapshots, snap)
	return len(h.snapshots) - 1
}

func (h *MemHost) RevertToSnapshot(id int) {
	h.accounts = h.snapshots[id]
	h.snapshots = h.snapshots[:id]
}

func (h *MemHost) GetBlockHash(number uint64) types.Hash { return h.blockHashes[number] }

func (h *MemHost) GetPrecompile(addr types.Address) (Precompile, bool) {
	if h.precompiles == nil {
		return nil, false
	}
	return h.precompiles.Lookup(addr)
}

func cloneStorage(m map[types.Hash]types.Hash) map[types.Hash]types.Hash {
	out := make(map[types.Hash]types.Hash, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
