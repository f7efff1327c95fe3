package fixedmath

import (
	"math"
	"math/big"
)

// ApproxLog2 returns an approximation of log2(x) for x >= 1, accurate to
// within 2^-44 absolute error (§4.1). Callers must never invoke this with
// x == 0 (guarded at the call site, per spec).
//
// The implementation converts through a 200-bit big.Float, which holds any
// 112-bit value exactly; Float64() then rounds it to the nearest float64
// (53 bits of mantissa). The resulting relative error is at most 2^-53, which propagates through d/dx log2(x) = 1/(x ln 2) to an absolute
// error on the order of 2^-52 — comfortably inside the 2^-44 budget even
// after the subsequent float64 Log2 call's own rounding.
func ApproxLog2(x Uint112) float64 {
	return approxLog2Big(x.v.ToBig())
}

// ApproxLog2Uint256 is the 256-bit counterpart of ApproxLog2. PriceLog does
// not use it: its saturating multiply keeps values within 112 bits.
func ApproxLog2Uint256(x Uint256) float64 {
	return approxLog2Big(x.v.ToBig())
}

func approxLog2Big(b *big.Int) float64 {
	f := new(big.Float).SetPrec(200).SetInt(b)
	v, _ := f.Float64()
	return math.Log2(v)
}
