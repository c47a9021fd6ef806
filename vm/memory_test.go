package vm

import (
	"bytes"
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestMemoryResize(t *testing.T) {
	mem := NewMemory()
	if mem.Len() != 0 {
		t.Fatalf("initial Len() = %d, want 0", mem.Len())
	}

	if err := mem.Resize(64); err != nil {
		t.Fatalf("Resize(64): %v", err)
	}
	if mem.Len() != 64 {
		t.Fatalf("after Resize(64), Len() = %d, want 64", mem.Len())
	}

	// Resize to a smaller size must not shrink.
	if err := mem.Resize(32); err != nil {
		t.Fatalf("Resize(32): %v", err)
	}
	if mem.Len() != 64 {
		t.Fatalf("after Resize(32), Len() = %d, want 64", mem.Len())
	}
}

func TestMemoryResizeOverLimit(t *testing.T) {
	mem := NewMemory()
	if err := mem.Resize(defaultMemoryLimit + 1); err != ErrOutOfMemory {
		t.Fatalf("Resize(over limit) = %v, want ErrOutOfMemory", err)
	}
}

func TestMemorySetGet(t *testing.T) {
	mem := NewMemory()
	mem.Resize(64)

	data := []byte{0xde, 0xad, 0xbe, 0xef}
	mem.Set(10, data)

	got := mem.Get(10, uint64(len(data)))
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %x, want %x", got, data)
	}
}

func TestMemorySet32(t *testing.T) {
	mem := NewMemory()
	mem.Resize(64)

	val := uint256.NewInt(0xff)
	mem.Set32(0, val)

	got := mem.Get(0, 32)
	expected := make([]byte, 32)
	expected[31] = 0xff
	if !bytes.Equal(got, expected) {
		t.Errorf("Set32 result = %x, want %x", got, expected)
	}
}

func TestMemoryGetPtrIsView(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)

	data := []byte{1, 2, 3, 4}
	mem.Set(0, data)

	ptr := mem.GetPtr(0, 4)
	ptr[0] = 0xff
	if mem.Data()[0] != 0xff {
		t.Error("GetPtr should return a direct reference into the backing store")
	}
}

func TestMemoryGetZeroSize(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)

	if got := mem.Get(0, 0); got != nil {
		t.Errorf("Get(0, 0) = %v, want nil", got)
	}
	if got := mem.GetPtr(0, 0); got != nil {
		t.Errorf("GetPtr(0, 0) = %v, want nil", got)
	}
}

func TestMemoryCopyOverlapping(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)
	mem.Set(0, []byte{1, 2, 3, 4, 5})

	// Shift the range [0,5) right by one: a naive copy (not memmove) would
	// clobber src[1] before it's read and duplicate it forward.
	mem.Copy(1, 0, 5)
	got := mem.Get(0, 6)
	want := []byte{1, 1, 2, 3, 4, 5}
	if !bytes.Equal(got, want) {
		t.Errorf("overlapping Copy() = %x, want %x", got, want)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct{ size, want uint64 }{
		{0, 0},
		{1, 1},
		{32, 1},
		{33, 2},
		{64, 2},
	}
	for _, tt := range tests {
		if got := WordCount(tt.size); got != tt.want {
			t.Errorf("WordCount(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestMemoryExpansionCostNoExpansion(t *testing.T) {
	cost, newSize, err := MemoryExpansionCost(64, 0, 32)
	if err != nil {
		t.Fatalf("MemoryExpansionCost: %v", err)
	}
	if cost != 0 || newSize != 64 {
		t.Errorf("cost=%d newSize=%d, want 0, 64", cost, newSize)
	}
}

func TestMemoryExpansionCostFromZero(t *testing.T) {
	tests := []struct {
		size uint64
		want uint64
	}{
		// 1 word: 1*3 + 1/512 = 3
		{32, 3},
		// 2 words: 2*3 + 4/512 = 6
		{64, 6},
		// 32 words: 32*3 + 1024/512 = 96 + 2 = 98
		{1024, 98},
	}
	for _, tt := range tests {
		cost, _, err := MemoryExpansionCost(0, 0, tt.size)
		if err != nil {
			t.Fatalf("MemoryExpansionCost(0,0,%d): %v", tt.size, err)
		}
		if cost != tt.want {
			t.Errorf("MemoryExpansionCost(0,0,%d) = %d, want %d", tt.size, cost, tt.want)
		}
	}
}

func TestMemoryExpansionCostDelta(t *testing.T) {
	// 32 -> 64 bytes: cost(2 words) - cost(1 word) = 6 - 3 = 3
	cost, _, err := MemoryExpansionCost(32, 0, 64)
	if err != nil {
		t.Fatalf("MemoryExpansionCost: %v", err)
	}
	if cost != 3 {
		t.Errorf("cost = %d, want 3", cost)
	}
}

func TestMemoryExpansionCostQuadraticGrowth(t *testing.T) {
	small, _, err := MemoryExpansionCost(0, 0, 1024)
	if err != nil {
		t.Fatal(err)
	}
	large, _, err := MemoryExpansionCost(0, 0, 32768)
	if err != nil {
		t.Fatal(err)
	}
	ratio := float64(large) / float64(small)
	if ratio <= 32.0 {
		t.Errorf("large/small cost ratio = %f, want > 32 (quadratic growth)", ratio)
	}
}

func TestMemoryExpansionCostOverflow(t *testing.T) {
	_, _, err := MemoryExpansionCost(0, 0, math.MaxUint64)
	if err == nil {
		t.Error("MemoryExpansionCost(0, 0, MaxUint64) should error")
	}
}
