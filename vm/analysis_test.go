package vm

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestAnalyzeSplitsBasicBlocksAtJumpdest(t *testing.T) {
	table := NewJumpTable(Cancun)
	code := []byte{
		byte(PUSH1), 1,
		byte(JUMPDEST),
		byte(PUSH1), 2,
		byte(STOP),
	}
	a, err := Analyze(code, table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	beginBlocks := 0
	for _, instr := range a.Instructions {
		if instr.Kind == KindBeginBlock {
			beginBlocks++
		}
	}
	if beginBlocks != 2 {
		t.Errorf("begin-block count = %d, want 2 (one at entry, one at JUMPDEST)", beginBlocks)
	}
}

func TestAnalyzeAppendsImplicitStop(t *testing.T) {
	table := NewJumpTable(Cancun)
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD)} // no terminator
	a, err := Analyze(code, table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if lastRealOp(a.Instructions) != STOP {
		t.Errorf("last op = %s, want implicit STOP", lastRealOp(a.Instructions))
	}
}

func TestAnalyzeDoesNotTreatPushDataAsJumpdest(t *testing.T) {
	table := NewJumpTable(Cancun)
	// PUSH1 0x5b: the immediate byte 0x5b is JUMPDEST's opcode value, but it
	// must not be registered as a valid jump target since it's push data.
	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(STOP)}
	a, err := Analyze(code, table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	one := uint256.NewInt(1)
	if _, err := a.ResolveJumpDest(one); err != ErrInvalidJump {
		t.Errorf("ResolveJumpDest(1) = %v, want ErrInvalidJump (byte 1 is push data, not JUMPDEST)", err)
	}
}

func TestAnalyzeCodeTooLarge(t *testing.T) {
	table := NewJumpTable(Cancun)
	code := make([]byte, 100)
	_, err := Analyze(code, table, 10)
	if err != ErrCodeTooLarge {
		t.Errorf("Analyze with a size cap below len(code) = %v, want ErrCodeTooLarge", err)
	}
}

func TestResolveJumpTargetFusion(t *testing.T) {
	table := NewJumpTable(Cancun)
	// PUSH1 3, JUMP, JUMPDEST, STOP -- byte 3 is the JUMPDEST.
	// Layout: 0:PUSH1 op, 1:imm(3), 2:JUMP, 3:JUMPDEST, 4:STOP
	code := []byte{byte(PUSH1), 3, byte(JUMP), byte(JUMPDEST), byte(STOP)}
	a, err := Analyze(code, table, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	found := false
	for _, instr := range a.Instructions {
		if instr.Op == JUMP {
			found = true
			if instr.JumpIdx < 0 {
				t.Error("constant JUMP target should be fused to a direct instruction index")
			}
		}
	}
	if !found {
		t.Fatal("no JUMP instruction found in the decoded stream")
	}
}
