package types

// AccessTuple is one entry of an EIP-2930 access list: an address and the
// storage slots within it that should be pre-warmed before execution.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

// AccessList is the full EIP-2930 access list carried by a transaction.
type AccessList []AccessTuple
