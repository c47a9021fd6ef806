package vm

import (
	"encoding/binary"

	"github.com/holiman/bloomfilter/v2"

	"github.com/lattice-vm/evmcore/core/types"
	"github.com/lattice-vm/evmcore/crypto"
)

// LogBloomAccumulator is a probabilistic "has this EVM emitted a log
// mentioning this address or topic" index, built incrementally as LOGn
// opcodes fire across every call the EVM runs. It is not the consensus 2048-bit header bloom (that belongs
// to block assembly, outside this module's scope) -- it exists so a host
// embedding this interpreter can cheaply pre-filter "does this frame's
// output touch X" without scanning every emitted types.Log.
type LogBloomAccumulator struct {
	filter *bloomfilter.Filter
}

// NewLogBloomAccumulator sizes the filter for maxLogs logs at five entries
// each (one address plus up to four topics) at a 1% false-positive rate.
func NewLogBloomAccumulator(maxLogs uint64) *LogBloomAccumulator {
	f, err := bloomfilter.NewOptimal(maxLogs*5, 0.01)
	if err != nil {
		// NewOptimal only fails for a zero or absurd maxN/p; fall back to a
		// small fixed-size filter rather than letting a log-heavy call crash.
		f, _ = bloomfilter.New(2048, 3)
	}
	return &LogBloomAccumulator{filter: f}
}

// Add indexes one emitted log's address and topics.
func (b *LogBloomAccumulator) Add(log *types.Log) {
	if b == nil {
		return
	}
	b.filter.Add(bloomHash(log.Address[:]))
	for _, t := range log.Topics {
		b.filter.Add(bloomHash(t[:]))
	}
}

// MayContain reports whether key (an address or a topic hash) could have
// been logged. A false return is definitive; a true return needs the
// caller to check the actual log list.
func (b *LogBloomAccumulator) MayContain(key []byte) bool {
	if b == nil {
		return true
	}
	return b.filter.Contains(bloomHash(key))
}

func bloomHash(key []byte) bloomfilter.Hash {
	sum := crypto.Keccak256(key)
	return bloomfilter.Hash{
		H1: binary.BigEndian.Uint64(sum[0:8]),
		H2: binary.BigEndian.Uint64(sum[8:16]),
	}
}
