package vm

import (
	"testing"

	"github.com/lattice-vm/evmcore/core/types"
)

func TestLogBloomAccumulatorAddAndMayContain(t *testing.T) {
	b := NewLogBloomAccumulator(16)
	addr := types.HexToAddress("0x01")
	topic := types.HexToHash("0xaa")

	log := &types.Log{Address: addr, Topics: []types.Hash{topic}}
	b.Add(log)

	if !b.MayContain(addr[:]) {
		t.Error("MayContain(addr) = false after Add, want true")
	}
	if !b.MayContain(topic[:]) {
		t.Error("MayContain(topic) = false after Add, want true")
	}
}

func TestLogBloomAccumulatorNilIsPermissive(t *testing.T) {
	var b *LogBloomAccumulator
	if !b.MayContain([]byte("anything")) {
		t.Error("nil LogBloomAccumulator.MayContain should return true (can't rule anything out)")
	}
	b.Add(&types.Log{}) // must not panic
}

func TestLogBloomAccumulatorUnseenKeyUsuallyAbsent(t *testing.T) {
	b := NewLogBloomAccumulator(16)
	b.Add(&types.Log{Address: types.HexToAddress("0x01")})
	if b.MayContain(types.HexToAddress("0x99")[:]) {
		t.Skip("false positive is possible at low probability; not a hard failure")
	}
}
