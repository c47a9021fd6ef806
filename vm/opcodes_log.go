package vm

import "github.com/lattice-vm/evmcore/core/types"

// makeLogHandler returns the LOGn handler, n in [0,4]: it pops the memory
// range and n topics (in that order) and emits one Log to the Host.
func makeLogHandler(n int) opHandler {
	return func(f *Frame, evm *EVM, instr *Instruction) error {
		offset, _ := f.Stack.Pop()
		size, _ := f.Stack.Pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t, _ := f.Stack.Pop()
			topics[i] = wordToHash(&t)
		}
		data := f.Memory.Get(offset.Uint64(), size.Uint64())
		log := &types.Log{
			Address: f.Address,
			Topics:  topics,
			Data:    data,
		}
		evm.Host.AddLog(log)
		evm.logBloom.Add(log)
		return nil
	}
}

// gasLog charges GasLog plus GasLogTopic per topic plus GasLogData per
// byte logged, in addition to memory expansion (handled generically by the
// MemorySize hook).
func gasLog(topics int) gasFunc {
	return func(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
		size := stack.Back(1)
		if !size.IsUint64() {
			return 0, ErrOutOfOffset
		}
		cost := safeAdd(GasLog, safeMul(GasLogTopic, uint64(topics)))
		cost = safeAdd(cost, safeMul(GasLogData, size.Uint64()))
		return cost, nil
	}
}
