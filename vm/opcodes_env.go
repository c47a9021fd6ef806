package vm

import "github.com/holiman/uint256"

func opAddress(f *Frame, evm *EVM, instr *Instruction) error {
	w := addressToWord(f.Address)
	return f.Stack.Push(&w)
}

func opBalance(f *Frame, evm *EVM, instr *Instruction) error {
	addrWord := f.Stack.Peek()
	addr := wordToAddress(addrWord)
	bal := evm.Host.GetBalance(addr)
	addrWord.Set(bal)
	return nil
}

func gasBalance(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	addr := wordToAddress(stack.Back(0))
	return accessAddressGas(evm, addr, GasBalanceLegacyFor(evm.Config)), nil
}

// GasBalanceLegacyFor returns the flat BALANCE cost for pre-Berlin forks
// (Istanbul's EIP-1884 repriced it from 400 to 700).
func GasBalanceLegacyFor(r ForkRules) uint64 {
	if r.IsIstanbul {
		return GasBalanceEIP1884
	}
	return GasBalanceLegacy
}

func opOrigin(f *Frame, evm *EVM, instr *Instruction) error {
	w := addressToWord(evm.TxCtx.Origin)
	return f.Stack.Push(&w)
}

func opCaller(f *Frame, evm *EVM, instr *Instruction) error {
	w := addressToWord(f.Caller)
	return f.Stack.Push(&w)
}

func opCallvalue(f *Frame, evm *EVM, instr *Instruction) error {
	v := f.Value
	return f.Stack.Push(&v)
}

func opCalldataload(f *Frame, evm *EVM, instr *Instruction) error {
	off := f.Stack.Peek()
	var buf [32]byte
	if off.IsUint64() {
		start := off.Uint64()
		if start < uint64(len(f.Input)) {
			end := start + 32
			if end > uint64(len(f.Input)) {
				end = uint64(len(f.Input))
			}
			copy(buf[:end-start], f.Input[start:end])
		}
	}
	off.SetBytes(buf[:])
	return nil
}

func opCalldatasize(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(uint64(len(f.Input)))
	return f.Stack.Push(&v)
}

func opCalldatacopy(f *Frame, evm *EVM, instr *Instruction) error {
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	data := getDataSlice(f.Input, offset.Uint64(), size.Uint64())
	f.Memory.Set(destOffset.Uint64(), data)
	return nil
}

func opCodesize(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(uint64(f.Analysis.CodeLen))
	return f.Stack.Push(&v)
}

func opCodecopy(f *Frame, evm *EVM, instr *Instruction) error {
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	data := getDataSlice(evm.Host.GetCode(f.Address), offset.Uint64(), size.Uint64())
	f.Memory.Set(destOffset.Uint64(), data)
	return nil
}

func opGasprice(f *Frame, evm *EVM, instr *Instruction) error {
	p := *evm.TxCtx.GasPrice
	return f.Stack.Push(&p)
}

func opExtcodesize(f *Frame, evm *EVM, instr *Instruction) error {
	addrWord := f.Stack.Peek()
	addr := wordToAddress(addrWord)
	var v uint256.Int
	v.SetUint64(uint64(evm.Host.GetCodeSize(addr)))
	addrWord.Set(&v)
	return nil
}

func gasExtcodesize(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	addr := wordToAddress(stack.Back(0))
	return accessAddressGas(evm, addr, GasExtcodeSizeLegacy), nil
}

func opExtcodecopy(f *Frame, evm *EVM, instr *Instruction) error {
	addrWord, _ := f.Stack.Pop()
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	code := evm.Host.GetCode(wordToAddress(&addrWord))
	data := getDataSlice(code, offset.Uint64(), size.Uint64())
	f.Memory.Set(destOffset.Uint64(), data)
	return nil
}

func gasExtcodecopy(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	addr := wordToAddress(stack.Back(0))
	length := stack.Back(3)
	base := accessAddressGas(evm, addr, GasExtcodeSizeLegacy)
	if !length.IsUint64() {
		return 0, ErrOutOfOffset
	}
	return safeAdd(base, safeMul(GasCopyWord, toWordSize(length.Uint64()))), nil
}

func memSizeExtcodecopy(stack *Stack) (uint64, uint64, error) {
	return memSizeOffsetLen(1, 3)(stack)
}

func opReturndatasize(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(uint64(len(f.ReturnData)))
	return f.Stack.Push(&v)
}

func opReturndatacopy(f *Frame, evm *EVM, instr *Instruction) error {
	destOffset, _ := f.Stack.Pop()
	offset, _ := f.Stack.Pop()
	size, _ := f.Stack.Pop()
	if offset.Uint64()+size.Uint64() > uint64(len(f.ReturnData)) {
		return ErrOutOfOffset
	}
	data := getDataSlice(f.ReturnData, offset.Uint64(), size.Uint64())
	f.Memory.Set(destOffset.Uint64(), data)
	return nil
}

func opExtcodehash(f *Frame, evm *EVM, instr *Instruction) error {
	addrWord := f.Stack.Peek()
	addr := wordToAddress(addrWord)
	if !evm.Host.Exist(addr) || evm.Host.Empty(addr) {
		addrWord.Clear()
		return nil
	}
	h := evm.Host.GetCodeHash(addr)
	w := hashToWord(h)
	addrWord.Set(&w)
	return nil
}

func gasExtcodehash(f *Frame, evm *EVM, stack *Stack, memSize uint64) (uint64, error) {
	addr := wordToAddress(stack.Back(0))
	return accessAddressGas(evm, addr, GasExtcodeHashEIP1884), nil
}

func opBlockhash(f *Frame, evm *EVM, instr *Instruction) error {
	num := f.Stack.Peek()
	if !num.IsUint64() {
		num.Clear()
		return nil
	}
	h := evm.Host.GetBlockHash(num.Uint64())
	w := hashToWord(h)
	num.Set(&w)
	return nil
}

func opCoinbase(f *Frame, evm *EVM, instr *Instruction) error {
	w := addressToWord(evm.Block.Coinbase)
	return f.Stack.Push(&w)
}

func opTimestamp(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(evm.Block.Time)
	return f.Stack.Push(&v)
}

func opNumber(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(evm.Block.BlockNumber)
	return f.Stack.Push(&v)
}

// opPrevrandao reports post-Merge RANDAO output; pre-Merge this slot is
// DIFFICULTY and reports the PoW difficulty instead. Which one applies is
// selected by the jump table entry's Execute field, not by this function,
// since the opcode byte (0x44) and the meaning it carries both depend on
// the active fork.
func opPrevrandao(f *Frame, evm *EVM, instr *Instruction) error {
	w := hashToWord(evm.Block.Random)
	return f.Stack.Push(&w)
}

func opDifficulty(f *Frame, evm *EVM, instr *Instruction) error {
	d := *evm.Block.Difficulty
	return f.Stack.Push(&d)
}

func opGaslimit(f *Frame, evm *EVM, instr *Instruction) error {
	var v uint256.Int
	v.SetUint64(evm.Block.GasLimit)
	return f.Stack.Push(&v)
}

func opChainid(f *Frame, evm *EVM, instr *Instruction) error {
	id := *evm.ChainID
	return f.Stack.Push(&id)
}

func opSelfbalance(f *Frame, evm *EVM, instr *Instruction) error {
	bal := evm.Host.GetBalance(f.Address)
	v := *bal
	return f.Stack.Push(&v)
}

func opBasefee(f *Frame, evm *EVM, instr *Instruction) error {
	fee := *evm.Block.BaseFee
	return f.Stack.Push(&fee)
}

func opBlobhash(f *Frame, evm *EVM, instr *Instruction) error {
	idx := f.Stack.Peek()
	if idx.IsUint64() && idx.Uint64() < uint64(len(evm.TxCtx.BlobHashes)) {
		w := hashToWord(evm.TxCtx.BlobHashes[idx.Uint64()])
		idx.Set(&w)
	} else {
		idx.Clear()
	}
	return nil
}

func opBlobbasefee(f *Frame, evm *EVM, instr *Instruction) error {
	fee := *evm.Block.BlobBaseFee
	return f.Stack.Push(&fee)
}

// getDataSlice returns a right-zero-padded copy of code[offset:offset+size],
// the shape CALLDATACOPY/CODECOPY/EXTCODECOPY all share when the requested
// range runs past the end of the source.
func getDataSlice(data []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(data)) {
		return out
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	copy(out, data[offset:end])
	return out
}
