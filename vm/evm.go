package vm

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

// Host is everything outside this module that the interpreter needs to read
// or mutate: account balances and code, persistent and transient storage,
// logs, and the journal that makes all of it revertible across nested call
// frames (the refund accumulator is kept by the EVM, not the Host). Implementations own the actual
// storage backend; this module only calls through the interface.
type Host interface {
	GetBalance(addr types.Address) *uint256.Int
	AddBalance(addr types.Address, amount *uint256.Int)
	SubBalance(addr types.Address, amount *uint256.Int)

	GetCode(addr types.Address) []byte
	SetCode(addr types.Address, code []byte)
	GetCodeHash(addr types.Address) types.Hash
	GetCodeSize(addr types.Address) int

	GetState(addr types.Address, key types.Hash) types.Hash
	SetState(addr types.Address, key, value types.Hash)
	// GetCommittedState returns the value key held at the start of the
	// current transaction, ignoring any writes made so far this
	// transaction. SSTORE's EIP-2200 net-gas formula needs this alongside
	// GetState's current (possibly already-dirtied) value.
	GetCommittedState(addr types.Address, key types.Hash) types.Hash
	GetTransientState(addr types.Address, key types.Hash) types.Hash
	SetTransientState(addr types.Address, key, value types.Hash)

	Exist(addr types.Address) bool
	Empty(addr types.Address) bool
	CreateAccount(addr types.Address)
	GetNonce(addr types.Address) uint64
	SetNonce(addr types.Address, nonce uint64)

	SelfDestruct(addr, beneficiary types.Address) error
	HasSelfDestructed(addr types.Address) bool

	AddLog(log *types.Log)

	Snapshot() int
	RevertToSnapshot(id int)

	GetBlockHash(number uint64) types.Hash

	GetPrecompile(addr types.Address) (Precompile, bool)
}

// Precompile is a built-in contract addressable like any other account.
// Implementations live outside this module (cryptography and ecosystem
// libraries the host wires in); the interpreter only needs to invoke one.
type Precompile interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// BlockContext is the block-scoped data EVM-family opcodes read. It does
// not change across calls within one block.
type BlockContext struct {
	Coinbase    types.Address
	GasLimit    uint64
	BlockNumber uint64
	Time        uint64
	Difficulty  *uint256.Int // pre-Merge PoW difficulty
	Random      types.Hash   // post-Merge PREVRANDAO
	BaseFee     *uint256.Int
	BlobBaseFee *uint256.Int
}

// TxContext is the transaction-scoped data ORIGIN/GASPRICE/BLOBHASH read.
type TxContext struct {
	Origin     types.Address
	GasPrice   *uint256.Int
	BlobHashes []types.Hash
}

// Config bundles the values that parameterize one EVM instance: the
// hardfork (and its derived ForkRules and JumpTable), the chain ID
// CHAINID reports, and optional debug hooks. NewEVM takes these as
// separate arguments; nothing in this package consumes a Config value.
type Config struct {
	ChainID *uint256.Int
	Fork    Hardfork
	Hooks   *DebugHooks
}

// EVM ties a Host, a block/tx context, and a jump table together into
// something that can run call and create messages. Its own state is
// transaction-scoped bookkeeping (access list, refund accumulator, log
// bloom, the set of addresses created this transaction) plus the analysis
// cache; all account state lives behind Host.
type EVM struct {
	Host  Host
	Block BlockContext
	TxCtx TxContext

	Config ForkRules
	Table  *JumpTable
	ChainID *uint256.Int

	interpreter *Interpreter
	analysisCache *AnalysisCache
	accessList    *AccessList
	refunds       *RefundAccumulator
	logBloom      *LogBloomAccumulator
	metrics       *Metrics
	depth         int

	// createdThisTx tracks addresses CREATE/CREATE2 deployed during the
	// current transaction, per EIP-6780: SELFDESTRUCT only actually
	// destroys the account (rather than just transferring its balance) if
	// it was created in the same transaction.
	createdThisTx map[types.Address]bool
}

// NewEVM constructs an EVM for one transaction. fork selects the jump
// table and ForkRules; every call builds a fresh *JumpTable for fork
// (building it touches all 256 slots), which the EVM then reuses for all
// the messages it runs.
func NewEVM(host Host, block BlockContext, txCtx TxContext, chainID *uint256.Int, fork Hardfork, hooks *DebugHooks) *EVM {
	rules := DefaultForkRules(fork)
	evm := &EVM{
		Host:          host,
		Block:         block,
		TxCtx:         txCtx,
		Config:        rules,
		Table:         NewJumpTable(fork),
		ChainID:       chainID,
		analysisCache: NewAnalysisCache(256),
		accessList:    NewAccessList(),
		refunds:       NewRefundAccumulator(),
		logBloom:      NewLogBloomAccumulator(256),
		createdThisTx: make(map[types.Address]bool),
	}
	evm.interpreter = NewInterpreter(evm, hooks)
	return evm
}

// WithMetrics attaches a Metrics sink; the zero value (nil) disables
// reporting entirely, so this is optional.
func (evm *EVM) WithMetrics(m *Metrics) *EVM {
	evm.metrics = m
	return evm
}

// LogBloom returns the accumulator indexing every log emitted so far by
// this EVM instance across all its calls.
func (evm *EVM) LogBloom() *LogBloomAccumulator { return evm.logBloom }

// CallKind distinguishes the four message-call opcodes and the two create
// opcodes for the handler that needs to know which rules to apply.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

// CallParams describes one call or create message.
type CallParams struct {
	Kind     CallKind
	Caller   types.Address
	Address  types.Address // callee for *CALL*, predicted address for CREATE*
	Input    []byte        // calldata for *CALL*, init code for CREATE*
	Value    *uint256.Int
	Gas      uint64
	IsStatic bool
	Salt     *uint256.Int // CREATE2 only
}

// CallResult is the outcome of running one call or create message.
type CallResult struct {
	Output    []byte
	GasLeft   uint64
	GasUsed   uint64
	Halt      HaltKind
	Err       error
	CreatedAt types.Address // CREATE/CREATE2 only, valid when Err == nil
}

func wordToAddress(w *uint256.Int) types.Address {
	var a types.Address
	var buf [32]byte
	w.WriteToSlice(buf[:])
	copy(a[:], buf[12:])
	return a
}

func addressToWord(a types.Address) uint256.Int {
	var w uint256.Int
	var buf [32]byte
	copy(buf[12:], a[:])
	w.SetBytes(buf[:])
	return w
}

func hashToWord(h types.Hash) uint256.Int {
	var w uint256.Int
	w.SetBytes(h[:])
	return w
}

func wordToHash(w *uint256.Int) types.Hash {
	var h types.Hash
	w.WriteToSlice(h[:])
	return h
}

// Call is the single entry point for all six message shapes (four call
// kinds, two create kinds). The orchestration (depth check, value transfer,
// precompile routing, frame setup/teardown, and snapshot/revert) lives in
// evm_call_handlers.go and evm_create.go; Call dispatches on params.Kind and
// fires the OnMessage debug hook around the dispatch.
func (evm *EVM) Call(ctx context.Context, params *CallParams) *CallResult {
	if evm.depth > MaxCallDepth {
		return &CallResult{GasLeft: params.Gas, Err: ErrMaxCallDepthExceeded, Halt: HaltCallDepth}
	}
	hooks := evm.interpreter.hooks
	if hooks != nil && hooks.OnMessage != nil {
		hooks.OnMessage(params, "before")
	}
	topLevel := evm.depth == 0
	var result *CallResult
	switch params.Kind {
	case CallKindCreate, CallKindCreate2:
		result = evm.create(ctx, params)
	default:
		result = evm.call(ctx, params)
	}
	if topLevel {
		evm.metrics.Observe(params.Kind, result)
	}
	if hooks != nil && hooks.OnMessage != nil {
		hooks.OnMessage(params, "after")
	}
	return result
}
