package vm

import "github.com/lattice-vm/evmcore/core/types"

// StructLog is one captured step of execution, the same shape block
// explorers and debuggers render as an opcode trace.
type StructLog struct {
	PC      uint64
	Op      OpCode
	Gas     uint64
	GasCost uint64
	Depth   int
	Err     error
}

// EVMLogger is the callback shape for per-instruction and per-call tracing.
// The EVM itself never invokes these methods: the interpreter only consults
// DebugHooks, and StructLogTracer.AsStepHook is what feeds CaptureState from
// the OnStep hook. A StructLogTracer is the reference implementation; a host
// wanting richer output (call trees, storage diffs) implements the same
// interface and drives it itself.
type EVMLogger interface {
	CaptureStart(from, to types.Address, create bool, input []byte, gas uint64, value *types.Hash)
	CaptureState(pc uint64, op OpCode, gas, cost uint64, depth int, err error)
	CaptureEnd(output []byte, gasUsed uint64, err error)
}

// StructLogTracer accumulates a StructLog per step, the simplest possible
// EVMLogger, useful for golden-trace tests and the evmrun CLI's --trace flag.
type StructLogTracer struct {
	Logs []StructLog
}

func NewStructLogTracer() *StructLogTracer { return &StructLogTracer{} }

func (t *StructLogTracer) CaptureStart(from, to types.Address, create bool, input []byte, gas uint64, value *types.Hash) {
}

func (t *StructLogTracer) CaptureState(pc uint64, op OpCode, gas, cost uint64, depth int, err error) {
	t.Logs = append(t.Logs, StructLog{PC: pc, Op: op, Gas: gas, GasCost: cost, Depth: depth, Err: err})
}

func (t *StructLogTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {}

// AsStepHook adapts a StructLogTracer into the OnStep callback DebugHooks
// expects. Gas and gas-cost-this-step are approximations: the lightweight
// DebugHooks path fires before dynamic gas is charged, so GasCost here is
// always 0 (it is not the tracer's job to duplicate the interpreter's gas
// pipeline, and no other path reports exact per-step cost).
func (t *StructLogTracer) AsStepHook() func(f *Frame, pc uint64, op OpCode) StepAction {
	return func(f *Frame, pc uint64, op OpCode) StepAction {
		t.CaptureState(pc, op, f.Gas, 0, f.Depth, nil)
		return StepContinue
	}
}
