package vm

// StepAction is what a debug hook requests after observing one instruction.
type StepAction int

const (
	StepContinue StepAction = iota
	StepPause
	StepAbort
)

// DebugHooks lets a Host observe or interrupt execution. A nil *DebugHooks
// (or nil fields within it) disables the corresponding hook entirely, with
// no overhead beyond a nil check.
type DebugHooks struct {
	// OnStep is called before each real (non-BEGIN_BLOCK) instruction.
	OnStep func(f *Frame, pc uint64, op OpCode) StepAction
	// OnMessage is called before ("before") and after ("after") a
	// top-level or nested call/create.
	OnMessage func(params *CallParams, phase string)
}

// Interpreter runs the dispatch loop: a single-threaded, synchronous walk
// of a Frame's pre-decoded instruction stream.
type Interpreter struct {
	evm   *EVM
	hooks *DebugHooks
}

// NewInterpreter returns an Interpreter bound to evm. hooks may be nil.
func NewInterpreter(evm *EVM, hooks *DebugHooks) *Interpreter {
	return &Interpreter{evm: evm, hooks: hooks}
}

// Run executes frame to completion and returns its output and the
// terminating error (ErrStop/ErrReturn/ErrRevert for normal halts, one of
// the other sentinels in errors.go for failures).
func (in *Interpreter) Run(f *Frame) ([]byte, error) {
	instrs := f.Analysis.Instructions

	for {
		if f.IP < 0 || f.IP >= len(instrs) {
			return nil, ErrStop
		}
		instr := &instrs[f.IP]

		if instr.Kind == KindBeginBlock {
			if f.Gas < instr.Block.GasCost {
				return nil, ErrOutOfGas
			}
			if f.Stack.Len() < instr.Block.StackReq {
				return nil, ErrStackUnderflow
			}
			if f.Stack.Len()+instr.Block.StackMaxGrowth > stackCapacity {
				return nil, ErrStackOverflow
			}
			f.Gas -= instr.Block.GasCost
			f.IP++
			continue
		}

		if instr.Kind == KindNop {
			f.IP++
			continue
		}

		if in.hooks != nil && in.hooks.OnStep != nil {
			switch in.hooks.OnStep(f, instr.PC, instr.Op) {
			case StepAbort:
				return nil, ErrDebugAbort
			case StepPause:
				return nil, ErrDebugAbort // single-step resume is not supported; treat as a clean abort
			}
		}

		if instr.Kind == KindPush {
			if err := f.Stack.Push(&instr.Push); err != nil {
				return nil, err
			}
			f.IP++
			continue
		}

		meta := instr.Meta
		if meta == nil || meta.Undefined {
			return nil, ErrInvalidOpcode
		}

		if meta.MemorySize != nil {
			offset, size, err := meta.MemorySize(f.Stack)
			if err != nil {
				return nil, err
			}
			cost, newSize, err := MemoryExpansionCost(uint64(f.Memory.Len()), offset, size)
			if err != nil {
				return nil, err
			}
			if err := f.UseGas(cost); err != nil {
				return nil, err
			}
			if err := f.Memory.Resize(newSize); err != nil {
				return nil, err
			}
			if meta.DynamicGas != nil {
				dyn, err := meta.DynamicGas(f, in.evm, f.Stack, newSize)
				if err != nil {
					return nil, err
				}
				if err := f.UseGas(dyn); err != nil {
					return nil, err
				}
			}
		} else if meta.DynamicGas != nil {
			dyn, err := meta.DynamicGas(f, in.evm, f.Stack, 0)
			if err != nil {
				return nil, err
			}
			if err := f.UseGas(dyn); err != nil {
				return nil, err
			}
		}

		if f.IsStatic && meta.Writes {
			return nil, ErrWriteProtection
		}

		prevIP := f.IP
		err := meta.Execute(f, in.evm, instr)
		if err == errJumped {
			continue
		}
		if err != nil {
			if err == ErrReturn || err == ErrRevert {
				return f.Output, err
			}
			return nil, err
		}
		if f.IP == prevIP {
			f.IP++
		}
	}
}
