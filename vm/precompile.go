package vm

import "github.com/lattice-vm/evmcore/core/types"

// precompileEntry pairs a Precompile with the hardfork it became available
// at, so a PrecompileRegistry can answer "is this address a precompile
// under these rules" without the caller re-deriving activation ranges.
type precompileEntry struct {
	impl       Precompile
	activeFrom Hardfork
}

// PrecompileRegistry is a ready-made GetPrecompile provider a Host can
// embed: register concrete implementations (supplied by the host, since
// their cryptography is out of this module's scope) against an address and
// an activation fork, and Lookup resolves them against the registry's
// configured fork.
type PrecompileRegistry struct {
	fork    Hardfork
	entries map[types.Address]precompileEntry
}

// NewPrecompileRegistry returns a registry that considers a precompile
// active only once fork has reached its activeFrom value.
func NewPrecompileRegistry(fork Hardfork) *PrecompileRegistry {
	return &PrecompileRegistry{fork: fork, entries: make(map[types.Address]precompileEntry)}
}

// Register installs impl at addr, active from activeFrom onward.
func (r *PrecompileRegistry) Register(addr types.Address, impl Precompile, activeFrom Hardfork) {
	r.entries[addr] = precompileEntry{impl: impl, activeFrom: activeFrom}
}

// Lookup implements the address-resolution half of Host.GetPrecompile.
func (r *PrecompileRegistry) Lookup(addr types.Address) (Precompile, bool) {
	e, ok := r.entries[addr]
	if !ok || r.fork < e.activeFrom {
		return nil, false
	}
	return e.impl, true
}
