package vm

import "github.com/holiman/uint256"

// Analysis is the immutable, shareable result of analyzing one bytecode
// blob against one opcode metadata table: the pre-decoded instruction
// stream plus the jump-destination index.
type Analysis struct {
	Instructions []Instruction
	// jumpdestToBlock maps a valid JUMPDEST byte offset to the instruction
	// index of the BEGIN_BLOCK that opens its block. A dynamic JUMP/JUMPI
	// target not present here is invalid.
	jumpdestToBlock map[uint64]int
	CodeLen         int
}

// terminators are opcodes that always end a basic block.
func isTerminator(op OpCode) bool {
	switch op {
	case STOP, RETURN, REVERT, INVALID, SELFDESTRUCT, JUMP, JUMPI:
		return true
	default:
		return false
	}
}

// Analyze performs a single pass over code: JUMPDEST discovery, basic-block
// discovery with per-block gas/stack bounds, and constant jump-target
// resolution. maxCodeSize of 0
// means unbounded (already-deployed code is not re-validated; only
// initcode submitted to CREATE is size-checked, by the create executor).
func Analyze(code []byte, table *JumpTable, maxCodeSize int) (*Analysis, error) {
	if maxCodeSize > 0 && len(code) > maxCodeSize {
		return nil, ErrCodeTooLarge
	}

	isCode := scanInstructionStarts(code)
	jumpdestBytes := make(map[uint64]bool)
	for i, ok := range isCode {
		if ok && OpCode(code[i]) == JUMPDEST {
			jumpdestBytes[uint64(i)] = true
		}
	}

	a := &Analysis{
		jumpdestToBlock: make(map[uint64]int),
		CodeLen:         len(code),
	}

	var block struct {
		idx            int // index of this block's BEGIN_BLOCK instruction
		gasCost        uint64
		stackReq       int
		stackChange    int
		stackMaxGrowth int
		open           bool
	}

	openBlock := func() {
		a.Instructions = append(a.Instructions, Instruction{Kind: KindBeginBlock})
		block.idx = len(a.Instructions) - 1
		block.gasCost, block.stackReq, block.stackChange, block.stackMaxGrowth = 0, 0, 0, 0
		block.open = true
	}

	closeBlock := func() {
		if !block.open {
			return
		}
		a.Instructions[block.idx].Block = BlockInfo{
			GasCost:        block.gasCost,
			StackReq:       block.stackReq,
			StackMaxGrowth: block.stackMaxGrowth,
		}
		block.open = false
	}

	accumulate := func(meta *OpMetadata) {
		in := meta.Pops
		out := meta.Pushes
		requiredOnEntry := in - block.stackChange
		if requiredOnEntry > block.stackReq {
			block.stackReq = requiredOnEntry
		}
		block.stackChange += out - in
		if block.stackChange > block.stackMaxGrowth {
			block.stackMaxGrowth = block.stackChange
		}
		block.gasCost = safeAdd(block.gasCost, meta.ConstantGas)
	}

	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])

		if op == JUMPDEST {
			closeBlock()
			openBlock()
			a.jumpdestToBlock[uint64(pc)] = block.idx
			meta := table[op]
			a.Instructions = append(a.Instructions, Instruction{Kind: KindOp, Op: op, Meta: meta, PC: uint64(pc)})
			if meta != nil {
				accumulate(meta)
			}
			pc++
			continue
		}

		if !block.open {
			openBlock()
		}

		meta := table[op]

		switch {
		case op == PUSH0:
			a.Instructions = append(a.Instructions, Instruction{Kind: KindPush, Op: op, Meta: meta, PC: uint64(pc)})
			if meta != nil {
				accumulate(meta)
			}
			pc++

		case op.IsPush():
			size := op.PushSize()
			var buf [32]byte
			end := pc + 1 + size
			if end > len(code) {
				end = len(code)
			}
			copy(buf[32-size:], code[pc+1:end])
			var val uint256.Int
			val.SetBytes(buf[:])
			a.Instructions = append(a.Instructions, Instruction{Kind: KindPush, Op: op, Meta: meta, PC: uint64(pc), Push: val})
			if meta != nil {
				accumulate(meta)
			}
			pc += 1 + size

		default:
			a.Instructions = append(a.Instructions, Instruction{Kind: KindOp, Op: op, Meta: meta, PC: uint64(pc)})
			if meta != nil {
				accumulate(meta)
			}
			pc++
			if isTerminator(op) {
				closeBlock()
			}
		}
	}
	closeBlock()

	if len(a.Instructions) == 0 || !isTerminator(lastRealOp(a.Instructions)) {
		a.Instructions = append(a.Instructions, Instruction{Kind: KindOp, Op: STOP, Meta: table[STOP]})
	}

	resolveJumpTargets(a, jumpdestBytes)
	patchGasCorrections(a)

	return a, nil
}

// lastRealOp returns the opcode of the last non-BEGIN_BLOCK instruction, or
// STOP if the stream is empty.
func lastRealOp(instrs []Instruction) OpCode {
	for i := len(instrs) - 1; i >= 0; i-- {
		if instrs[i].Kind != KindBeginBlock {
			return instrs[i].Op
		}
	}
	return STOP
}

// scanInstructionStarts walks code once, skipping PUSH immediates, and
// returns a bitmap where true means byte i is the start of an instruction
// (as opposed to push data).
func scanInstructionStarts(code []byte) []bool {
	isCode := make([]bool, len(code))
	for i := 0; i < len(code); {
		isCode[i] = true
		op := OpCode(code[i])
		if op.IsPush() {
			i += 1 + op.PushSize()
		} else {
			i++
		}
	}
	return isCode
}

// resolveJumpTargets implements constant-jump-target fusion: a JUMP/JUMPI
// immediately preceded by a PUSH of a
// value that names a real JUMPDEST is rewired to a direct instruction-index
// target, and the now-redundant PUSH becomes a no-op so the interpreter
// never performs the push/pop round trip at run time.
func resolveJumpTargets(a *Analysis, jumpdestBytes map[uint64]bool) {
	for i := range a.Instructions {
		instr := &a.Instructions[i]
		instr.JumpIdx = -1
		if instr.Op != JUMP && instr.Op != JUMPI {
			continue
		}
		if i == 0 {
			continue
		}
		prev := &a.Instructions[i-1]
		if prev.Kind != KindPush {
			continue
		}
		if !prev.Push.IsUint64() {
			continue
		}
		target := prev.Push.Uint64()
		if !jumpdestBytes[target] {
			continue
		}
		blockIdx, ok := a.jumpdestToBlock[target]
		if !ok {
			continue
		}
		instr.JumpIdx = blockIdx
		prev.Kind = KindNop
	}
}

// patchGasCorrections fills in Instruction.GasCorrection for every GAS
// opcode: the sum of constant gas of every instruction strictly after it
// within the same basic block. BEGIN_BLOCK has already charged that gas, so
// opGas adds it back to report the gas remaining after GAS itself.
func patchGasCorrections(a *Analysis) {
	for i := range a.Instructions {
		if a.Instructions[i].Kind == KindBeginBlock || a.Instructions[i].Op != GAS {
			continue
		}
		var rest uint64
		for j := i + 1; j < len(a.Instructions) && a.Instructions[j].Kind != KindBeginBlock; j++ {
			if a.Instructions[j].Meta != nil {
				rest = safeAdd(rest, a.Instructions[j].Meta.ConstantGas)
			}
		}
		a.Instructions[i].GasCorrection = rest
	}
}

// ResolveJumpDest validates a dynamic (non-constant) JUMP/JUMPI target and
// returns the instruction index to jump to.
func (a *Analysis) ResolveJumpDest(target *uint256.Int) (int, error) {
	if !target.IsUint64() {
		return 0, ErrInvalidJump
	}
	idx, ok := a.jumpdestToBlock[target.Uint64()]
	if !ok {
		return 0, ErrInvalidJump
	}
	return idx, nil
}
