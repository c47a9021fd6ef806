package vm

import (
	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

// Frame is the per-call execution state: created on entry to a call/create
// and destroyed on exit.
type Frame struct {
	Gas      uint64
	IsStatic bool
	Depth    int

	Address types.Address // contract_address: code executing in this frame
	Caller  types.Address
	Value   uint256.Int

	Input  []byte // immutable view of calldata
	Output []byte // set on RETURN/REVERT

	Stack      *Stack
	Memory     *Memory
	ReturnData []byte // most recent child call's output

	IP int // index into Analysis.Instructions

	Analysis *Analysis
}

// NewFrame constructs a Frame ready to begin execution at the start of its
// analyzed instruction stream.
func NewFrame(addr, caller types.Address, value *uint256.Int, input []byte, gas uint64, depth int, isStatic bool, analysis *Analysis) *Frame {
	f := &Frame{
		Gas:      gas,
		IsStatic: isStatic,
		Depth:    depth,
		Address:  addr,
		Caller:   caller,
		Input:    input,
		Stack:    NewStack(),
		Memory:   NewMemory(),
		Analysis: analysis,
	}
	if value != nil {
		f.Value.Set(value)
	}
	return f
}

// UseGas attempts to deduct gas. Returns ErrOutOfGas without mutating
// f.Gas if insufficient.
func (f *Frame) UseGas(gas uint64) error {
	if f.Gas < gas {
		return ErrOutOfGas
	}
	f.Gas -= gas
	return nil
}

// CurrentOp returns the opcode the frame is about to execute, resolving
// through fused instructions to their primary opcode. Used by debug hooks.
func (f *Frame) CurrentOp() OpCode {
	if f.IP < 0 || f.IP >= len(f.Analysis.Instructions) {
		return STOP
	}
	return f.Analysis.Instructions[f.IP].Op
}
