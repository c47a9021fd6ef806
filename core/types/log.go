package types

// Log is a single LOG0..LOG4 event emitted during execution. It mirrors the
// consensus fields only; block/tx position metadata is attached by the Host,
// not by the core.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// MaxTopicsPerLog is the maximum number of indexed topics a LOG opcode can
// carry (LOG0..LOG4).
const MaxTopicsPerLog = 4
