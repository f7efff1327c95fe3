// Package budget implements the per-block RPC budget described in §4.6/§5:
// a single process-wide integer, reset once per block, charged by every
// chain-side point call (pair discovery, ticker lookups, fallback reserve
// reads). Relaxed-ordering increments are acceptable — readers may observe a
// count that is off by one from a concurrent charge.
package budget

import "sync/atomic"

// Budget is a process-wide RPC counter bounded by a configured limit.
type Budget struct {
	limit int64
	used  atomic.Int64
}

// New constructs a Budget allowing at most limit charges per reset period.
func New(limit int64) *Budget {
	return &Budget{limit: limit}
}

// Reset zeroes the counter at the start of a new block, per §4.6 step 1.
func (b *Budget) Reset() {
	b.used.Store(0)
}

// TryCharge attempts to charge one RPC call against the budget. Returns
// false, without charging, if the budget is already exhausted — callers must
// then short-circuit the current cycle/read without failing the block.
func (b *Budget) TryCharge() bool {
	for {
		cur := b.used.Load()
		if cur >= b.limit {
			return false
		}
		if b.used.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Used reports the number of charges since the last Reset. Callers must
// tolerate values slightly stale relative to concurrent charges (§5).
func (b *Budget) Used() int64 {
	return b.used.Load()
}

// Remaining reports how many charges are still available.
func (b *Budget) Remaining() int64 {
	remaining := b.limit - b.used.Load()
	if remaining < 0 {
		return 0
	}
	return remaining
}
