package vm

import "github.com/holiman/uint256"

// memoryWordSize is the number of bytes a memory cell is rounded up to.
const memoryWordSize = 32

// defaultMemoryLimit bounds runaway memory growth independent of the gas
// charged for it, matching the donor's LazyMemoryDefaultLimit safety valve.
const defaultMemoryLimit = 32 * 1024 * 1024 // 32 MiB

// Memory is per-frame, byte-addressable, word-expanded scratch space.
type Memory struct {
	store []byte
	limit int
}

// NewMemory returns an empty Memory with the default size cap.
func NewMemory() *Memory {
	return &Memory{limit: defaultMemoryLimit}
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the underlying buffer. Callers must not retain it across
// further mutation.
func (m *Memory) Data() []byte { return m.store }

// Resize grows memory to exactly size bytes (already rounded to a word
// boundary by the caller) if it is currently smaller. It never shrinks.
func (m *Memory) Resize(size uint64) error {
	if uint64(len(m.store)) >= size {
		return nil
	}
	if size > uint64(m.limit) {
		return ErrOutOfMemory
	}
	grown := make([]byte, size)
	copy(grown, m.store)
	m.store = grown
	return nil
}

// Get returns a copy of size bytes starting at offset. Callers must ensure
// the range is in bounds (via Resize) before calling.
func (m *Memory) Get(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// GetPtr returns a slice view (no copy) of size bytes starting at offset.
func (m *Memory) GetPtr(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	return m.store[offset : offset+size]
}

// Set writes data into memory at offset. The region must already be sized.
func (m *Memory) Set(offset uint64, data []byte) {
	copy(m.store[offset:offset+uint64(len(data))], data)
}

// Set32 writes a 256-bit word, big-endian, at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	var buf [32]byte
	val.WriteToSlice(buf[:])
	copy(m.store[offset:offset+32], buf[:])
}

// Copy implements MCOPY semantics: memmove, not memcpy -- overlapping
// source/destination ranges must preserve the original source bytes.
func (m *Memory) Copy(dst, src, length uint64) {
	if length == 0 {
		return
	}
	copy(m.store[dst:dst+length], m.store[src:src+length])
}

// WordCount returns ceil(size/32), the number of 32-byte words needed to
// hold size bytes.
func WordCount(size uint64) uint64 {
	return (size + memoryWordSize - 1) / memoryWordSize
}
