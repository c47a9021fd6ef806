package vm

// RefundAccumulator tracks the gas refund owed for the current transaction.
// Only SSTORE adds to it; SELFDESTRUCT records no refund. It is transaction-scoped, not
// frame-scoped: a refund earned in a nested call survives that call
// returning normally, but is rolled back if the call (or an ancestor)
// reverts, via Snapshot/Revert mirroring the state journal.
type RefundAccumulator struct {
	total   uint64
	journal []int64 // signed deltas, in order, for Revert to undo
}

// NewRefundAccumulator returns a zeroed accumulator.
func NewRefundAccumulator() *RefundAccumulator {
	return &RefundAccumulator{}
}

// Add increases the refund counter.
func (r *RefundAccumulator) Add(gas uint64) {
	r.total += gas
	r.journal = append(r.journal, int64(gas))
}

// Sub decreases the refund counter (EIP-2200: re-dirtying a slot that had
// earned a refund claws it back). Saturates at zero rather than
// underflowing, matching the reference gas table's use of max(0, ...).
func (r *RefundAccumulator) Sub(gas uint64) {
	if gas > r.total {
		gas = r.total
	}
	r.total -= gas
	r.journal = append(r.journal, -int64(gas))
}

// Total returns the current accumulated refund, before the EIP-3529 cap is
// applied at the end of the transaction.
func (r *RefundAccumulator) Total() uint64 { return r.total }

// Snapshot returns a mark Revert can roll back to.
func (r *RefundAccumulator) Snapshot() int { return len(r.journal) }

// Revert undoes every Add/Sub recorded since mark.
func (r *RefundAccumulator) Revert(mark int) {
	for i := len(r.journal) - 1; i >= mark; i-- {
		r.total -= uint64(r.journal[i])
	}
	r.journal = r.journal[:mark]
}

// Capped returns the refund actually granted: min(total, gasUsed/quotient),
// per EIP-3529 (quotient 5 from London, 2 before).
func (r *RefundAccumulator) Capped(gasUsed uint64, rules ForkRules) uint64 {
	limit := gasUsed / RefundQuotient(rules)
	if r.total < limit {
		return r.total
	}
	return limit
}
