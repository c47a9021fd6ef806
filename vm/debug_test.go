package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

func TestStructLogTracerCapturesSteps(t *testing.T) {
	host := NewMemHost(nil)
	block := BlockContext{BaseFee: new(uint256.Int), BlobBaseFee: new(uint256.Int), Difficulty: new(uint256.Int)}
	tracer := NewStructLogTracer()
	hooks := &DebugHooks{OnStep: tracer.AsStepHook()}
	evm := NewEVM(host, block, TxContext{GasPrice: new(uint256.Int)}, new(uint256.Int), Cancun, hooks)

	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD), byte(STOP)}
	a, err := Analyze(code, evm.Table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	f := NewFrame(types.Address{}, types.Address{}, nil, nil, 1_000_000, 0, false, a)
	if _, err := evm.interpreter.Run(f); err != nil && err != ErrStop {
		t.Fatalf("Run: %v", err)
	}
	if len(tracer.Logs) == 0 {
		t.Fatal("tracer captured no steps")
	}
	if tracer.Logs[0].Op != PUSH1 {
		t.Errorf("first captured op = %s, want PUSH1", tracer.Logs[0].Op)
	}
}

func TestStructLogTracerRecordsDepth(t *testing.T) {
	tracer := NewStructLogTracer()
	hook := tracer.AsStepHook()
	f := NewFrame(types.Address{}, types.Address{}, nil, nil, 1000, 3, false, nil)
	hook(f, 0, STOP)
	if len(tracer.Logs) != 1 {
		t.Fatalf("len(Logs) = %d, want 1", len(tracer.Logs))
	}
	if tracer.Logs[0].Depth != 3 {
		t.Errorf("Depth = %d, want 3", tracer.Logs[0].Depth)
	}
}
