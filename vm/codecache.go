package vm

import (
	"github.com/VictoriaMetrics/fastcache"

	"github.com/lattice-vm/evmcore/core/types"
)

// CodeCache is a fixed-size byte-addressed cache of contract code keyed by
// codehash, sitting in front of a Host whose GetCode may hit a disk-backed
// trie or a remote state provider. It is independent of AnalysisCache,
// which caches the decoded instruction stream; CodeCache caches the raw
// bytes the analyzer consumes.
type CodeCache struct {
	cache *fastcache.Cache
}

// NewCodeCache allocates a cache of approximately maxBytes capacity.
func NewCodeCache(maxBytes int) *CodeCache {
	return &CodeCache{cache: fastcache.New(maxBytes)}
}

// Get returns the cached code for codeHash, or nil, false on a miss.
func (c *CodeCache) Get(codeHash types.Hash) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.HasGet(nil, codeHash[:])
	if !ok {
		return nil, false
	}
	return v, true
}

// Set stores code under codeHash.
func (c *CodeCache) Set(codeHash types.Hash, code []byte) {
	if c == nil {
		return
	}
	c.cache.Set(codeHash[:], code)
}

// CachedHost wraps a Host, serving GetCode out of a CodeCache before
// falling through to the underlying Host on a miss. Every other Host
// method passes through unchanged.
type CachedHost struct {
	Host
	cache *CodeCache
}

// NewCachedHost wraps host with a code cache of approximately maxBytes.
func NewCachedHost(host Host, maxBytes int) *CachedHost {
	return &CachedHost{Host: host, cache: NewCodeCache(maxBytes)}
}

func (c *CachedHost) GetCode(addr types.Address) []byte {
	hash := c.Host.GetCodeHash(addr)
	if code, ok := c.cache.Get(hash); ok {
		return code
	}
	code := c.Host.GetCode(addr)
	c.cache.Set(hash, code)
	return code
}
