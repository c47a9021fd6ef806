package vm

import "github.com/holiman/uint256"

// InstrKind tags what an Instruction represents in the pre-decoded stream.
type InstrKind uint8

const (
	// KindOp is a normal, unfused opcode.
	KindOp InstrKind = iota
	// KindBeginBlock is the synthetic pseudo-instruction the analyzer
	// inserts at the start of every basic block.
	KindBeginBlock
	// KindPush carries an immediate value read directly from the
	// argument rather than decoded from the byte stream at run time.
	KindPush
	// KindNop is the tombstone left behind when a PUSH is fused into a
	// resolved constant jump target, keeping stream indices (and other
	// resolved jump targets) stable.
	KindNop
)

// BlockInfo is the aggregate gas/stack envelope of one basic block,
// computed once at analysis time and consulted once per block entry.
type BlockInfo struct {
	GasCost        uint64
	StackReq       int
	StackMaxGrowth int
}

// Instruction is one pre-decoded unit of the instruction stream: a handler
// selector plus whatever argument that handler needs. A systems-language
// interpreter would tag-pack this into a fixed-width struct for cache
// occupancy; Go's GC and slice-of-struct layout make a side value pool an
// optimization with no correctness benefit here, so the argument fields
// are inlined directly.
type Instruction struct {
	Kind InstrKind
	Op   OpCode // concrete opcode; meaningful for KindOp/KindPush
	Meta *OpMetadata

	PC uint64 // original bytecode offset, for the PC opcode and diagnostics

	Push uint256.Int // immediate value for KindPush

	Block BlockInfo // valid when Kind == KindBeginBlock

	// JumpIdx is the resolved instruction-stream index for a constant-target
	// JUMP/JUMPI (fusion target), or -1 if the target must be resolved
	// dynamically at execution time from the stack.
	JumpIdx int

	// GasCorrection is the sum of constant gas costs of every instruction
	// strictly after this one within its basic block. The GAS opcode adds
	// this to frame.Gas to report the true remaining gas even though the
	// block's total static cost was pre-deducted at BEGIN_BLOCK. Only set
	// on instructions whose Op == GAS.
	GasCorrection uint64
}
