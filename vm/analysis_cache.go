package vm

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lattice-vm/evmcore/core/types"
)

// AnalysisCache memoizes Analyze results keyed by code hash, so a contract
// invoked many times within a block (or across blocks, if the caller keeps
// one EVM alive that long) only pays the analysis pass once.
type AnalysisCache struct {
	cache *lru.Cache[types.Hash, *Analysis]
}

// NewAnalysisCache returns a cache holding at most size entries.
func NewAnalysisCache(size int) *AnalysisCache {
	c, err := lru.New[types.Hash, *Analysis](size)
	if err != nil {
		// Only returns an error for size <= 0.
		c, _ = lru.New[types.Hash, *Analysis](1)
	}
	return &AnalysisCache{cache: c}
}

// Get returns the cached Analysis for codeHash, analyzing and caching code
// if this is the first time codeHash has been seen.
func (ac *AnalysisCache) Get(codeHash types.Hash, code []byte, table *JumpTable) (*Analysis, error) {
	if a, ok := ac.cache.Get(codeHash); ok {
		return a, nil
	}
	a, err := Analyze(code, table, 0)
	if err != nil {
		return nil, err
	}
	ac.cache.Add(codeHash, a)
	return a, nil
}
