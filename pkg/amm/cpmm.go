// Package amm implements the constant-product (x*y=k) AMM formulae: the
// exact swap-output function in widened 256-bit arithmetic, the fee-aware
// directed log-price, and the cycle-feasibility gate built from it (§4.2).
//
// The calculation style — a small pool of reusable scratch objects behind a
// sync.Pool, package-level functions over a method-bearing internal
// "calculator" struct — is carried over from the teacher's
// protocols/uniswapv2/calculator package, re-grounded on fixedmath's 112/256
// bit types and the thousandths fee convention instead of basis points.
package amm

import (
	"sync"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// cpmmCalc holds the reusable scratch values for one SwapOutput call.
type cpmmCalc struct {
	newReserveIn  fixedmath.Uint256
	numerator     fixedmath.Uint256
	denominator   fixedmath.Uint256
	amountInFee   fixedmath.Uint256
}

var calcPool = sync.Pool{
	New: func() any { return &cpmmCalc{} },
}

// SwapOutput computes dy = y - floor(x*y*B / (x*B + dx*F)) in 256-bit
// widened arithmetic, where x is the reserve of the in-token and y the
// reserve of the out-token. Properties guaranteed by construction: dy < y
// strictly (for dx > 0), dy = 0 iff dx = 0, and SwapOutput is monotone
// non-decreasing in dx.
func SwapOutput(dx fixedmath.Uint112, x, y fixedmath.Uint112, fee fixedmath.Fee) fixedmath.Uint256 {
	if dx.IsZero() {
		return fixedmath.Uint256FromUint64(0)
	}

	c := calcPool.Get().(*cpmmCalc)
	defer calcPool.Put(c)

	dx256 := dx.ToUint256()
	x256 := x.ToUint256()
	y256 := y.ToUint256()

	c.amountInFee = dx256.Mul(fee.FUint256())
	c.numerator = x256.Mul(y256).Mul(fee.BUint256())
	c.newReserveIn = x256.Mul(fee.BUint256()).Add(c.amountInFee)

	if c.newReserveIn.IsZero() {
		return fixedmath.Uint256FromUint64(0)
	}

	c.denominator = c.numerator.Div(c.newReserveIn)
	return y256.Sub(c.denominator)
}

// PriceLog computes the directed, fee-aware log-rate of the swap i -> j:
// approx_log2(r_j * F) - approx_log2(r_i * B), where r_i is the reserve of
// the in-token i and r_j the reserve of the out-token j in the pool they
// share (§4.2). It is positive when, at the margin and after the fee, one
// unit of i buys more than one unit of j. Both reserves must be non-zero;
// CycleFeasible checks this before calling. The multiply is saturating
// 112-bit, matching the Rust source's Uint<112,2>::saturating_mul.
func PriceLog(fee fixedmath.Fee, rI, rJ fixedmath.Uint112) float64 {
	scaledJ := rJ.SaturatingMul(fee.F())
	scaledI := rI.SaturatingMul(fee.B())
	return fixedmath.ApproxLog2(scaledJ) - fixedmath.ApproxLog2(scaledI)
}

// CycleFeasible applies the fee-aware feasibility gate (§4.2): the cycle
// t0 -> t1 -> ... -> tN-1 -> t0 admits positive profit only if the sum of
// directed log-prices around it is positive. This is necessary, and for
// small enough trades on a CPMM sufficient, as a gate before the exact
// profit solver runs. A leg with an empty reserve on either side makes the
// cycle infeasible.
func CycleFeasible(fee fixedmath.Fee, legs []domain.ReservePair) bool {
	var sum float64
	for _, leg := range legs {
		if leg.In.IsZero() || leg.Out.IsZero() {
			return false
		}
		sum += PriceLog(fee, leg.In, leg.Out)
	}
	return sum > 0
}
