package vm

import (
	"context"
	"testing"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

func newCreateEVM() (*EVM, *MemHost) {
	host := NewMemHost(nil)
	block := BlockContext{BaseFee: new(uint256.Int), BlobBaseFee: new(uint256.Int), Difficulty: new(uint256.Int)}
	evm := NewEVM(host, block, TxContext{GasPrice: new(uint256.Int)}, new(uint256.Int), Cancun, nil)
	return evm, host
}

func TestCreateDeploysReturnedCode(t *testing.T) {
	evm, host := newCreateEVM()
	sender := types.HexToAddress("0x01")

	// Initcode returns runtime code [0x5b] (a single JUMPDEST byte).
	// PUSH1 0x5b PUSH1 0 MSTORE8 PUSH1 1 PUSH1 0 RETURN
	initcode := []byte{
		byte(PUSH1), byte(JUMPDEST), byte(PUSH1), 0, byte(MSTORE8),
		byte(PUSH1), 1, byte(PUSH1), 0, byte(RETURN),
	}

	result := evm.Call(context.Background(), &CallParams{
		Kind:   CallKindCreate,
		Caller: sender,
		Input:  initcode,
		Gas:    1_000_000,
		Value:  new(uint256.Int),
	})
	if result.Err != nil {
		t.Fatalf("Create: %v", result.Err)
	}
	code := host.GetCode(result.CreatedAt)
	if len(code) != 1 || code[0] != byte(JUMPDEST) {
		t.Errorf("deployed code = %x, want single byte 0x5b", code)
	}
}

func TestCreateRejects0xEFPrefixedCode(t *testing.T) {
	evm, _ := newCreateEVM()
	sender := types.HexToAddress("0x01")

	// Initcode returns runtime code starting with 0xEF (EIP-3541).
	initcode := []byte{
		byte(PUSH1), 0xEF, byte(PUSH1), 0, byte(MSTORE8),
		byte(PUSH1), 1, byte(PUSH1), 0, byte(RETURN),
	}
	result := evm.Call(context.Background(), &CallParams{
		Kind:   CallKindCreate,
		Caller: sender,
		Input:  initcode,
		Gas:    1_000_000,
		Value:  new(uint256.Int),
	})
	if result.Err != ErrInvalidCodeEntry {
		t.Errorf("deploying 0xEF-prefixed code = %v, want ErrInvalidCodeEntry", result.Err)
	}
}

func TestCreate2AddressMatchesSpecFormula(t *testing.T) {
	sender := types.HexToAddress("0x01")
	salt := uint256.NewInt(42)
	initcode := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(RETURN)}

	want := create2Address(sender, salt, initcode)

	evm, _ := newCreateEVM()
	result := evm.Call(context.Background(), &CallParams{
		Kind:   CallKindCreate2,
		Caller: sender,
		Input:  initcode,
		Salt:   salt,
		Gas:    1_000_000,
		Value:  new(uint256.Int),
	})
	if result.Err != nil {
		t.Fatalf("Create2: %v", result.Err)
	}
	if result.CreatedAt != want {
		t.Errorf("CreatedAt = %s, want %s", result.CreatedAt.Hex(), want.Hex())
	}
}

func TestGasCreateChargesInitcodeWordCostPostShanghai(t *testing.T) {
	evm, _ := newCreateEVM() // Cancun: IsShanghai is true
	stack := NewStack()
	size := uint256.NewInt(64) // 2 words
	off := uint256.NewInt(0)
	val := uint256.NewInt(0)
	stack.Push(size) // bottom: CREATE pops value, offset, size in that order
	stack.Push(off)
	stack.Push(val) // top

	f := NewFrame(types.Address{}, types.Address{}, nil, nil, 1_000_000, 0, false, nil)
	cost, err := gasCreate(CallKindCreate)(f, evm, stack, 0)
	if err != nil {
		t.Fatalf("gasCreate: %v", err)
	}
	want := InitCodeWordGas * toWordSize(64)
	if cost != want {
		t.Errorf("gasCreate cost = %d, want %d", cost, want)
	}
}
