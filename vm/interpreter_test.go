package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

// runCode analyzes and executes code against a throwaway Cancun EVM/Host
// and returns the RETURNed output plus the terminating error.
func runCode(t *testing.T, code []byte, gas uint64) ([]byte, error) {
	t.Helper()
	host := NewMemHost(nil)
	evm := NewEVM(host, BlockContext{BaseFee: new(uint256.Int), BlobBaseFee: new(uint256.Int), Difficulty: new(uint256.Int)},
		TxContext{GasPrice: new(uint256.Int)}, new(uint256.Int), Cancun, nil)
	analysis, err := Analyze(code, evm.Table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	frame := NewFrame(types.Address{}, types.Address{}, new(uint256.Int), nil, gas, 0, false, analysis)
	return evm.interpreter.Run(frame)
}

func mustReturn32(t *testing.T, code []byte) uint256.Int {
	t.Helper()
	out, err := runCode(t, code, 1_000_000)
	if err != ErrReturn {
		t.Fatalf("run: err = %v, want ErrReturn", err)
	}
	if len(out) != 32 {
		t.Fatalf("output len = %d, want 32", len(out))
	}
	var v uint256.Int
	v.SetBytes(out)
	return v
}

// ret0 appends the PUSH1 32 PUSH1 0 RETURN tail that returns the 32 bytes
// at memory offset 0 (where the test already MSTORE'd its result).
func ret0() []byte {
	return []byte{
		byte(PUSH1), 32, byte(PUSH1), 0, byte(RETURN),
	}
}

func storeAndReturn(stackOps []byte) []byte {
	code := append([]byte{}, stackOps...)
	code = append(code, byte(PUSH1), 0, byte(MSTORE))
	code = append(code, ret0()...)
	return code
}

func TestInterpreterAddAndReturn(t *testing.T) {
	// PUSH1 2 PUSH1 3 ADD -> 5
	code := storeAndReturn([]byte{byte(PUSH1), 2, byte(PUSH1), 3, byte(ADD)})
	got := mustReturn32(t, code)
	if got.Uint64() != 5 {
		t.Errorf("ADD result = %d, want 5", got.Uint64())
	}
}

func TestInterpreterSubOperandOrder(t *testing.T) {
	// PUSH1 3 PUSH1 10 SUB: top-of-stack (10) minus next (3) = 7.
	code := storeAndReturn([]byte{byte(PUSH1), 3, byte(PUSH1), 10, byte(SUB)})
	got := mustReturn32(t, code)
	if got.Uint64() != 7 {
		t.Errorf("SUB result = %d, want 7 (got reversed operand order?)", got.Uint64())
	}
}

func TestInterpreterDivOperandOrder(t *testing.T) {
	// PUSH1 4 PUSH1 20 DIV -> 20/4 = 5.
	code := storeAndReturn([]byte{byte(PUSH1), 4, byte(PUSH1), 20, byte(DIV)})
	got := mustReturn32(t, code)
	if got.Uint64() != 5 {
		t.Errorf("DIV result = %d, want 5", got.Uint64())
	}
}

func TestInterpreterModOperandOrder(t *testing.T) {
	// PUSH1 3 PUSH1 10 MOD -> 10 % 3 = 1.
	code := storeAndReturn([]byte{byte(PUSH1), 3, byte(PUSH1), 10, byte(MOD)})
	got := mustReturn32(t, code)
	if got.Uint64() != 1 {
		t.Errorf("MOD result = %d, want 1", got.Uint64())
	}
}

func TestInterpreterLtGtOperandOrder(t *testing.T) {
	// PUSH1 3 PUSH1 10 LT -> is 10 < 3? no -> 0
	code := storeAndReturn([]byte{byte(PUSH1), 3, byte(PUSH1), 10, byte(LT)})
	got := mustReturn32(t, code)
	if got.Uint64() != 0 {
		t.Errorf("LT(10,3) = %d, want 0", got.Uint64())
	}

	// PUSH1 3 PUSH1 10 GT -> is 10 > 3? yes -> 1
	code = storeAndReturn([]byte{byte(PUSH1), 3, byte(PUSH1), 10, byte(GT)})
	got = mustReturn32(t, code)
	if got.Uint64() != 1 {
		t.Errorf("GT(10,3) = %d, want 1", got.Uint64())
	}
}

func TestInterpreterExpOperandOrder(t *testing.T) {
	// PUSH1 3 PUSH1 2 EXP -> 2^3 = 8 (base is the first popped operand).
	code := storeAndReturn([]byte{byte(PUSH1), 3, byte(PUSH1), 2, byte(EXP)})
	got := mustReturn32(t, code)
	if got.Uint64() != 8 {
		t.Errorf("EXP(2,3) = %d, want 8", got.Uint64())
	}
}

func TestInterpreterAddModMulMod(t *testing.T) {
	// (5 + 10) mod 7 = 1. Stack order for ADDMOD pops a, b, N: push N, push
	// b, push a so a ends up on top.
	code := storeAndReturn([]byte{byte(PUSH1), 7, byte(PUSH1), 10, byte(PUSH1), 5, byte(ADDMOD)})
	got := mustReturn32(t, code)
	if got.Uint64() != 1 {
		t.Errorf("ADDMOD(5,10,7) = %d, want 1", got.Uint64())
	}

	// (5 * 10) mod 7 = 50 mod 7 = 1.
	code = storeAndReturn([]byte{byte(PUSH1), 7, byte(PUSH1), 10, byte(PUSH1), 5, byte(MULMOD)})
	got = mustReturn32(t, code)
	if got.Uint64() != 1 {
		t.Errorf("MULMOD(5,10,7) = %d, want 1", got.Uint64())
	}
}

func TestInterpreterJumpdestAndJump(t *testing.T) {
	// PUSH1 <dest> JUMP ... JUMPDEST PUSH1 99 PUSH1 0 MSTORE RETURN
	// Layout: 0:PUSH1 dest (0x60 0x03), 2:JUMP, 3:JUMPDEST; the dest byte
	// is patched below from the recorded offsets.
	var code []byte
	code = append(code, byte(PUSH1), 0x00) // placeholder, patched below
	destPush := len(code)
	code = append(code, byte(JUMP))
	jumpdestOffset := len(code)
	code = append(code, byte(JUMPDEST))
	code = append(code, byte(PUSH1), 99)
	code = append(code, byte(PUSH1), 0, byte(MSTORE))
	code = append(code, ret0()...)
	code[destPush-1] = byte(jumpdestOffset)

	out, err := runCode(t, code, 1_000_000)
	if err != ErrReturn {
		t.Fatalf("run: err = %v, want ErrReturn", err)
	}
	var v uint256.Int
	v.SetBytes(out)
	if v.Uint64() != 99 {
		t.Errorf("JUMP result = %d, want 99", v.Uint64())
	}
}

func TestInterpreterInvalidJumpDest(t *testing.T) {
	code := []byte{byte(PUSH1), 0x09, byte(JUMP), byte(STOP)}
	_, err := runCode(t, code, 1_000_000)
	if err != ErrInvalidJump {
		t.Errorf("err = %v, want ErrInvalidJump", err)
	}
}

func TestInterpreterOutOfGas(t *testing.T) {
	code := storeAndReturn([]byte{byte(PUSH1), 2, byte(PUSH1), 3, byte(ADD)})
	_, err := runCode(t, code, 5)
	if err != ErrOutOfGas {
		t.Errorf("err = %v, want ErrOutOfGas", err)
	}
}

func TestInterpreterStopNoCode(t *testing.T) {
	_, err := runCode(t, []byte{}, 1_000_000)
	if err != ErrStop {
		t.Errorf("err = %v, want ErrStop", err)
	}
}

// TestInterpreterFusedJumpDoesNotCorruptStack guards against a fused JUMP
// (PUSH <const dest>; JUMP, where resolveJumpTargets tombstones the PUSH to
// a no-op) popping a live stack value that sits beneath it. A live value is
// pushed before the PUSH/JUMP pair; if the fused handler wrongly pops it as
// the "destination", the RETURN below observes a corrupted value instead.
func TestInterpreterFusedJumpDoesNotCorruptStack(t *testing.T) {
	var code []byte
	code = append(code, byte(PUSH1), 77) // live value, must survive the jump
	code = append(code, byte(PUSH1), 0x00)
	destPush := len(code)
	code = append(code, byte(JUMP))
	jumpdestOffset := len(code)
	code = append(code, byte(JUMPDEST))
	code = append(code, byte(PUSH1), 0, byte(MSTORE))
	code = append(code, ret0()...)
	code[destPush-1] = byte(jumpdestOffset)

	got := mustReturn32(t, code)
	if got.Uint64() != 77 {
		t.Errorf("live value under a fused JUMP = %d, want 77 (fused JUMP stole it as the dest operand)", got.Uint64())
	}
}

// TestInterpreterFusedJumpiDoesNotCorruptStack is the JUMPI analogue: only
// the condition should be popped on the fused path, leaving whatever is
// beneath the PUSH<dest>/JUMPI pair untouched.
func TestInterpreterFusedJumpiDoesNotCorruptStack(t *testing.T) {
	var code []byte
	code = append(code, byte(PUSH1), 77) // live value, must survive the jump
	code = append(code, byte(PUSH1), 1)  // condition: true
	code = append(code, byte(PUSH1), 0x00)
	destPush := len(code)
	code = append(code, byte(JUMPI))
	code = append(code, byte(STOP)) // fallthrough if JUMPI wrongly doesn't jump
	jumpdestOffset := len(code)
	code = append(code, byte(JUMPDEST))
	code = append(code, byte(PUSH1), 0, byte(MSTORE))
	code = append(code, ret0()...)
	code[destPush-1] = byte(jumpdestOffset)

	got := mustReturn32(t, code)
	if got.Uint64() != 77 {
		t.Errorf("live value under a fused JUMPI = %d, want 77 (fused JUMPI stole it as the dest or cond operand)", got.Uint64())
	}
}
