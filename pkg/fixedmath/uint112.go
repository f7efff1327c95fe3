// Package fixedmath implements the fixed-precision arithmetic the AMM
// formulae need: 112-bit reserves/amounts widened to 256-bit for products,
// plus a saturating multiply and an approximate base-2 logarithm accurate to
// 2^-44. Widened arithmetic is backed by github.com/holiman/uint256, the
// teacher's own 256-bit integer dependency (already used by
// protocols/uniswapv3/calculator/tickmath).
package fixedmath

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Uint112 holds a 112-bit unsigned integer — a pool reserve or swap amount.
// The zero value is zero. Values are always kept in range; construction
// functions validate or saturate as documented per function.
type Uint112 struct {
	v uint256.Int
}

// maxUint112 is 2^112 - 1, the largest value a Uint112 can hold.
var maxUint112 = func() uint256.Int {
	var m uint256.Int
	m.Lsh(uint256.NewInt(1), 112)
	m.SubUint64(&m, 1)
	return m
}()

// Uint112FromUint64 builds a Uint112 out of a uint64; always in range.
func Uint112FromUint64(v uint64) Uint112 {
	var u Uint112
	u.v.SetUint64(v)
	return u
}

// Uint112FromBig converts a *big.Int, which must be in [0, 2^112). Returns
// an error rather than silently truncating — callers decoding Sync event
// data should never see a value outside 112 bits.
func Uint112FromBig(b *big.Int) (Uint112, error) {
	var u Uint112
	if b == nil || b.Sign() < 0 {
		return u, fmt.Errorf("fixedmath: negative or nil value")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return u, fmt.Errorf("fixedmath: value overflows 256 bits")
	}
	if v.Gt(&maxUint112) {
		return u, fmt.Errorf("fixedmath: value overflows 112 bits")
	}
	u.v = *v
	return u, nil
}

// Uint112FromBigEndian decodes the 14-byte big-endian encoding used for the
// hot-cache's remote (string-keyed) representation — see §4.4.
func Uint112FromBigEndian(b []byte) (Uint112, error) {
	if len(b) != 14 {
		return Uint112{}, fmt.Errorf("fixedmath: reserve encoding must be 14 bytes, got %d", len(b))
	}
	var u Uint112
	u.v.SetBytes(b)
	return u, nil
}

// BigEndian encodes the value into the 14-byte big-endian form used by the
// remote cache.
func (u Uint112) BigEndian() [14]byte {
	full := u.v.Bytes32()
	var out [14]byte
	copy(out[:], full[32-14:])
	return out
}

// IsZero reports whether the value is zero.
func (u Uint112) IsZero() bool { return u.v.IsZero() }

// Uint64 returns the value truncated to 64 bits; callers must already know
// the value fits (reserves rarely exceed 2^64 in practice, but correctness
// code should prefer ToUint256/ToBig).
func (u Uint112) Uint64() uint64 { return u.v.Uint64() }

// ToUint256 widens losslessly to 256 bits: a 112-bit value always fits.
func (u Uint112) ToUint256() Uint256 {
	var out Uint256
	out.v.Set(&u.v)
	return out
}

// ToBig converts to a *big.Int for display or storage encoding.
func (u Uint112) ToBig() *big.Int { return u.v.ToBig() }

// String renders the decimal value.
func (u Uint112) String() string { return u.v.String() }

// SaturatingMul multiplies two Uint112 values, widening to 256 bits for the
// product and saturating back down to the 112-bit range if the product
// overflows it. Used by the fee-aware log-price feasibility test (§4.2),
// where only the relative magnitude matters and saturation never produces a
// false negative (it can only push an already-huge value to the ceiling).
func (u Uint112) SaturatingMul(other Uint112) Uint112 {
	var product uint256.Int
	product.Mul(&u.v, &other.v)
	var out Uint112
	if product.Gt(&maxUint112) {
		out.v = maxUint112
	} else {
		out.v = product
	}
	return out
}

// Uint256 is a 256-bit unsigned integer used for the widened CPMM output
// computation (§4.2) and for arbitrage amount/revenue fields, which can
// exceed 112 bits once reserves are multiplied together.
type Uint256 struct {
	v uint256.Int
}

// Uint256FromUint64 builds a Uint256 from a uint64.
func Uint256FromUint64(v uint64) Uint256 {
	var u Uint256
	u.v.SetUint64(v)
	return u
}

// Add returns u + other.
func (u Uint256) Add(other Uint256) Uint256 {
	var out Uint256
	out.v.Add(&u.v, &other.v)
	return out
}

// Sub returns u - other; the caller must ensure u >= other (matches the
// CPMM output formula's invariant dy < y, never invoked out of range).
func (u Uint256) Sub(other Uint256) Uint256 {
	var out Uint256
	out.v.Sub(&u.v, &other.v)
	return out
}

// Mul returns u * other.
func (u Uint256) Mul(other Uint256) Uint256 {
	var out Uint256
	out.v.Mul(&u.v, &other.v)
	return out
}

// Div returns floor(u / other). Division by zero returns zero, matching
// uint256's documented behavior; callers in this module never divide by a
// provably-zero denominator (guarded at the call site).
func (u Uint256) Div(other Uint256) Uint256 {
	var out Uint256
	out.v.Div(&u.v, &other.v)
	return out
}

// Cmp compares u to other: -1, 0, or 1.
func (u Uint256) Cmp(other Uint256) int { return u.v.Cmp(&other.v) }

// LtUint112 reports whether u < the widened value of other.
func (u Uint256) LtUint112(other Uint112) bool { return u.v.Lt(&other.v) }

// ToUint112 narrows u down to 112 bits, erroring if it does not fit. Used by
// the profit solver (§4.8) to feed one swap's output as the next swap's
// input: the CPMM output invariant (dy < y, and y is itself a 112-bit
// reserve) guarantees every intermediate amount fits, but the conversion is
// still checked rather than assumed.
func (u Uint256) ToUint112() (Uint112, error) {
	var out Uint112
	if u.v.Gt(&maxUint112) {
		return out, fmt.Errorf("fixedmath: value overflows 112 bits")
	}
	out.v = u.v
	return out, nil
}

// IsZero reports whether the value is zero.
func (u Uint256) IsZero() bool { return u.v.IsZero() }

// ToBig converts to a *big.Int.
func (u Uint256) ToBig() *big.Int { return u.v.ToBig() }

// String renders the decimal value.
func (u Uint256) String() string { return u.v.String() }
