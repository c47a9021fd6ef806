package vm

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
	"github.com/lattice-vm/evmcore/crypto"
)

// create implements CREATE and CREATE2: address derivation, collision
// detection, init-code execution, and code-deposit gas.
func (evm *EVM) create(ctx context.Context, params *CallParams) *CallResult {
	maxInit := MaxInitCodeSizeForFork(evm.Config)
	if len(params.Input) > maxInit {
		return &CallResult{GasLeft: params.Gas, Err: ErrInitCodeTooLarge, Halt: HaltOther}
	}

	nonce := evm.Host.GetNonce(params.Caller)
	var addr types.Address
	if params.Kind == CallKindCreate2 {
		addr = create2Address(params.Caller, params.Salt, params.Input)
	} else {
		addr = createAddress(params.Caller, nonce)
	}

	snap := evm.Host.Snapshot()
	alSnap := evm.accessList.Snapshot()
	refSnap := evm.refunds.Snapshot()

	if evm.Host.Exist(addr) && (evm.Host.GetCodeSize(addr) != 0 || evm.Host.GetNonce(addr) != 0) {
		return &CallResult{GasLeft: params.Gas, Err: ErrCreateCollision, Halt: HaltOther}
	}

	evm.Host.SetNonce(params.Caller, nonce+1)
	evm.Host.CreateAccount(addr)
	evm.Host.SetNonce(addr, 1)
	evm.createdThisTx[addr] = true

	value := valueOrZero(params.Value)
	if !value.IsZero() {
		if evm.Host.GetBalance(params.Caller).Lt(value) {
			evm.rollback(snap, alSnap, refSnap)
			return &CallResult{GasLeft: params.Gas, Err: ErrInsufficientBalance, Halt: HaltOther}
		}
		evm.Host.SubBalance(params.Caller, value)
		evm.Host.AddBalance(addr, value)
	}

	analysis, err := Analyze(params.Input, evm.Table, 0)
	if err != nil {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, Err: err, Halt: classify(err)}
	}

	frame := NewFrame(addr, params.Caller, value, nil, params.Gas, evm.depth+1, false, analysis)
	evm.depth++
	code, runErr := evm.interpreter.Run(frame)
	evm.depth--

	if runErr != nil && runErr != ErrStop && runErr != ErrReturn {
		evm.rollback(snap, alSnap, refSnap)
		kind := classify(runErr)
		if runErr != ErrRevert {
			frame.Gas = 0 // any failure except a clean revert consumes all remaining gas
		}
		return &CallResult{GasLeft: frame.Gas, GasUsed: params.Gas - frame.Gas, Err: runErr, Halt: kind, CreatedAt: addr}
	}

	if len(code) > 0 && code[0] == 0xef && evm.Config.IsLondon {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, GasUsed: params.Gas, Err: ErrInvalidCodeEntry, Halt: HaltOther, CreatedAt: addr}
	}

	maxCode := MaxCodeSizeForFork(evm.Config)
	if len(code) > maxCode {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, GasUsed: params.Gas, Err: ErrCodeTooLarge, Halt: HaltOther, CreatedAt: addr}
	}

	depositCost := safeMul(CreateDataGas, uint64(len(code)))
	if err := frame.UseGas(depositCost); err != nil {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, GasUsed: params.Gas, Err: ErrOutOfGas, Halt: HaltOutOfGas, CreatedAt: addr}
	}

	evm.Host.SetCode(addr, code)

	return &CallResult{
		Output:    code,
		GasLeft:   frame.Gas,
		GasUsed:   params.Gas - frame.Gas,
		Halt:      HaltReturn,
		CreatedAt: addr,
	}
}

// createAddress derives the CREATE address: keccak256(rlp([sender, nonce]))[12:].
// A minimal RLP encoder for exactly this two-field, address+uint64 shape is
// written locally rather than importing a general RLP library, since it is
// the only RLP this module ever needs to produce (see DESIGN.md).
func createAddress(sender types.Address, nonce uint64) types.Address {
	encoded := rlpEncodeCreateList(sender, nonce)
	hash := crypto.Keccak256(encoded)
	var addr types.Address
	copy(addr[:], hash[12:])
	return addr
}

// create2Address derives the CREATE2 address:
// keccak256(0xff ++ sender ++ salt ++ keccak256(initcode))[12:].
func create2Address(sender types.Address, salt *uint256.Int, initcode []byte) types.Address {
	initHash := crypto.Keccak256(initcode)
	var saltBytes [32]byte
	salt.WriteToSlice(saltBytes[:])
	buf := make([]byte, 0, 1+20+32+32)
	buf = append(buf, 0xff)
	buf = append(buf, sender[:]...)
	buf = append(buf, saltBytes[:]...)
	buf = append(buf, initHash...)
	hash := crypto.Keccak256(buf)
	var addr types.Address
	copy(addr[:], hash[12:])
	return addr
}

func rlpEncodeCreateList(sender types.Address, nonce uint64) []byte {
	addrItem := rlpEncodeBytes(sender[:])
	nonceItem := rlpEncodeUint64(nonce)
	payload := append(append([]byte{}, addrItem...), nonceItem...)
	return append(rlpEncodeListHeader(len(payload)), payload...)
}

func rlpEncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpEncodeHeader(0x80, len(b)), b...)
}

func rlpEncodeUint64(n uint64) []byte {
	if n == 0 {
		return []byte{0x80}
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return rlpEncodeBytes(buf[i:])
}

func rlpEncodeHeader(base byte, size int) []byte {
	if size < 56 {
		return []byte{base + byte(size)}
	}
	var lenBytes []byte
	n := size
	for n > 0 {
		lenBytes = append([]byte{byte(n)}, lenBytes...)
		n >>= 8
	}
	return append([]byte{base + 55 + byte(len(lenBytes))}, lenBytes...)
}

func rlpEncodeListHeader(size int) []byte {
	return rlpEncodeHeader(0xc0, size)
}
