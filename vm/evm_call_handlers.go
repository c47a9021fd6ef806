package vm

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/lattice-vm/evmcore/core/types"
)

// call implements CALL, CALLCODE, DELEGATECALL, and STATICCALL. The four
// forms differ only in whose code/storage/caller/value context the new
// frame runs under; everything else (depth check, precompile routing,
// snapshot/revert, gas accounting for the 63/64 forwarding rule) is shared.
func (evm *EVM) call(ctx context.Context, params *CallParams) *CallResult {
	if evm.Host.GetBalance(params.Caller).Lt(valueOrZero(params.Value)) && params.Kind == CallKindCall {
		return &CallResult{GasLeft: params.Gas, Err: ErrInsufficientBalance, Halt: HaltOther}
	}

	snap := evm.Host.Snapshot()
	alSnap := evm.accessList.Snapshot()
	refSnap := evm.refunds.Snapshot()

	if pc, ok := evm.Host.GetPrecompile(params.Address); ok {
		return evm.runPrecompile(pc, params, snap, alSnap, refSnap)
	}

	codeAddr := params.Address
	storageAddr := params.Address
	caller := params.Caller
	value := valueOrZero(params.Value)
	isStatic := params.IsStatic

	switch params.Kind {
	case CallKindCallCode:
		storageAddr = params.Caller
	case CallKindDelegateCall:
		storageAddr = params.Caller
		caller = params.Caller
	case CallKindStaticCall:
		isStatic = true
	}

	if params.Kind == CallKindCall || params.Kind == CallKindCallCode {
		if !value.IsZero() {
			if isStatic {
				evm.rollback(snap, alSnap, refSnap)
				return &CallResult{GasLeft: params.Gas, Err: ErrWriteProtection, Halt: HaltWriteProtection}
			}
			evm.Host.SubBalance(params.Caller, value)
			evm.Host.AddBalance(storageAddr, value)
		}
	}

	if params.Kind == CallKindCall && !evm.Host.Exist(params.Address) {
		evm.Host.CreateAccount(params.Address)
	}

	code := evm.Host.GetCode(codeAddr)
	if len(code) == 0 {
		return &CallResult{GasLeft: params.Gas, Halt: HaltStop}
	}

	codeHash := evm.Host.GetCodeHash(codeAddr)
	if evm.metrics != nil {
		if evm.analysisCache.cache.Contains(codeHash) {
			evm.metrics.AnalysisCacheHits.Inc()
		} else {
			evm.metrics.AnalysisCacheMisses.Inc()
		}
	}
	analysis, err := evm.analysisCache.Get(codeHash, code, evm.Table)
	if err != nil {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, Err: err, Halt: classify(err)}
	}

	frameValue := value
	if params.Kind == CallKindDelegateCall {
		frameValue = valueOrZero(params.Value)
	}

	frame := NewFrame(storageAddr, caller, &frameValue, params.Input, params.Gas, evm.depth+1, isStatic, analysis)
	evm.depth++
	output, runErr := evm.interpreter.Run(frame)
	evm.depth--

	kind := classify(runErr)
	if runErr != nil && runErr != ErrStop && runErr != ErrReturn && runErr != ErrRevert {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, GasUsed: params.Gas, Err: runErr, Halt: kind}
	}
	if runErr == ErrRevert {
		evm.rollback(snap, alSnap, refSnap)
	}

	return &CallResult{
		Output:  output,
		GasLeft: frame.Gas,
		GasUsed: params.Gas - frame.Gas,
		Halt:    kind,
		Err:     revertErrOrNil(runErr),
	}
}

func (evm *EVM) runPrecompile(pc Precompile, params *CallParams, snap, alSnap, refSnap int) *CallResult {
	gasCost := pc.RequiredGas(params.Input)
	if params.Gas < gasCost {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: 0, GasUsed: params.Gas, Err: ErrOutOfGas, Halt: HaltOutOfGas}
	}
	if !valueOrZero(params.Value).IsZero() {
		evm.Host.SubBalance(params.Caller, params.Value)
		evm.Host.AddBalance(params.Address, params.Value)
	}
	out, err := pc.Run(params.Input)
	if err != nil {
		evm.rollback(snap, alSnap, refSnap)
		return &CallResult{GasLeft: params.Gas - gasCost, GasUsed: gasCost, Err: err, Halt: HaltOther}
	}
	return &CallResult{Output: out, GasLeft: params.Gas - gasCost, GasUsed: gasCost, Halt: HaltReturn}
}

func (evm *EVM) rollback(snap, alSnap, refSnap int) {
	evm.Host.RevertToSnapshot(snap)
	evm.accessList.Revert(alSnap)
	evm.refunds.Revert(refSnap)
}

func revertErrOrNil(err error) error {
	if err == ErrStop || err == ErrReturn {
		return nil
	}
	return err
}

func valueOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// selfDestruct transfers the calling frame's entire balance to beneficiary
// and, per EIP-6780, only actually marks the account for deletion if it
// was created earlier in this same transaction; otherwise it survives
// (with zero balance) the way the account does post-Cancun.
func (evm *EVM) selfDestruct(f *Frame, beneficiary types.Address) error {
	bal := evm.Host.GetBalance(f.Address)
	if !bal.IsZero() {
		evm.Host.AddBalance(beneficiary, bal)
		evm.Host.SubBalance(f.Address, bal)
	}
	if !evm.Config.IsCancun || evm.createdThisTx[f.Address] {
		return evm.Host.SelfDestruct(f.Address, beneficiary)
	}
	return nil
}
