package fixedmath

// Fee is a swap fee expressed in thousandths — 3 means 0.3% (§4.2). Every
// CPMM formula in pkg/amm takes a Fee so the convention is enforced by the
// type system rather than by a bare int parameter.
type Fee uint16

// FeeBase is B in "F = 1000 - fee, B = 1000".
const FeeBase = 1000

// F returns 1000 - fee as a Uint112, ready for saturating multiplication.
func (f Fee) F() Uint112 {
	return Uint112FromUint64(uint64(FeeBase - f))
}

// B returns the constant 1000 as a Uint112.
func (f Fee) B() Uint112 {
	return Uint112FromUint64(FeeBase)
}

// FUint256 returns 1000 - fee widened to 256 bits, for the CPMM output
// formula's denominator term dx*F.
func (f Fee) FUint256() Uint256 {
	return Uint256FromUint64(uint64(FeeBase - f))
}

// BUint256 returns the constant 1000 widened to 256 bits.
func (f Fee) BUint256() Uint256 {
	return Uint256FromUint64(FeeBase)
}
