// Package solver implements the profit solver (C8, §4.8): a coarse
// geometric search over input amounts that produces a candidate
// (amount_in, revenue) for a single triangular cycle, plus the per-block
// best-per-start-token deduplication described in the same section.
package solver

import (
	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/amm"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// geometricSteps is k = 0, 1, ..., 99 in x_k = 2^k, per §4.8.
const geometricSteps = 100

// Solve runs the geometric search over cycle for input amounts x_k = 2^k,
// k = 0..99, chaining the three swaps and retaining the maximal positive
// revenue. Returns ok = false if no input amount in the search produced
// positive revenue.
func Solve(cycle domain.Cycle) (arb domain.Arbitrage, ok bool) {
	var bestAmountIn, bestRevenue fixedmath.Uint256
	found := false

	for k := 0; k < geometricSteps; k++ {
		amountIn := powerOfTwo(k)
		amountOut, feasible := chain(cycle, amountIn)
		if !feasible {
			continue
		}
		if amountOut.Cmp(amountIn) <= 0 {
			continue
		}
		revenue := amountOut.Sub(amountIn)
		if !found || revenue.Cmp(bestRevenue) > 0 {
			bestAmountIn, bestRevenue = amountIn, revenue
			found = true
		}
	}

	if !found {
		return domain.Arbitrage{}, false
	}

	path := make([]domain.Leg, len(cycle.Legs))
	copy(path, cycle.Legs[:])
	return domain.Arbitrage{
		DexID:    cycle.DexID,
		AmountIn: bestAmountIn,
		Revenue:  bestRevenue,
		Path:     path,
	}, true
}

// chain runs amountIn through all three legs of the cycle in order,
// narrowing each 256-bit swap output back to 112 bits before feeding it to
// the next leg (safe: CPMM output is always strictly less than the pool's
// out-reserve, itself 112 bits). feasible is false if any intermediate
// amount fails to narrow — a defensive check that should never trigger given
// the invariant above.
func chain(cycle domain.Cycle, amountIn fixedmath.Uint256) (fixedmath.Uint256, bool) {
	dx, err := amountIn.ToUint112()
	if err != nil {
		return fixedmath.Uint256{}, false
	}

	var amountOut fixedmath.Uint256
	for _, leg := range cycle.Reserves {
		amountOut = amm.SwapOutput(dx, leg.In, leg.Out, cycle.Fee)
		if amountOut.IsZero() {
			return fixedmath.Uint256{}, false
		}
		dx, err = amountOut.ToUint112()
		if err != nil {
			return fixedmath.Uint256{}, false
		}
	}
	return amountOut, true
}

func powerOfTwo(k int) fixedmath.Uint256 {
	out := fixedmath.Uint256FromUint64(1)
	two := fixedmath.Uint256FromUint64(2)
	for i := 0; i < k; i++ {
		out = out.Mul(two)
	}
	return out
}

// BestPerStartToken keeps at most one arbitrage per distinct first-hop
// source token, choosing the one with maximal revenue, per §4.6 step 5 /
// §4.8's "Best per start token" rule and the "Cycle uniqueness in output"
// testable property (§8).
func BestPerStartToken(arbs []domain.Arbitrage) []domain.Arbitrage {
	best := make(map[domain.Address]domain.Arbitrage, len(arbs))
	order := make([]domain.Address, 0, len(arbs))
	for _, a := range arbs {
		start := a.StartToken()
		existing, ok := best[start]
		if !ok {
			best[start] = a
			order = append(order, start)
			continue
		}
		if a.Revenue.Cmp(existing.Revenue) > 0 {
			best[start] = a
		}
	}

	out := make([]domain.Arbitrage, 0, len(order))
	for _, start := range order {
		out = append(out, best[start])
	}
	return out
}
