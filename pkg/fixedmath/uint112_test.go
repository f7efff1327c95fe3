package fixedmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint112BigEndianRoundTrip(t *testing.T) {
	u := Uint112FromUint64(123456789)
	encoded := u.BigEndian()
	decoded, err := Uint112FromBigEndian(encoded[:])
	require.NoError(t, err)
	assert.Equal(t, u.String(), decoded.String())
}

func TestUint112FromBigRejectsOverflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 112)
	_, err := Uint112FromBig(tooBig)
	assert.Error(t, err)
}

func TestUint112FromBigRejectsNegative(t *testing.T) {
	_, err := Uint112FromBig(big.NewInt(-1))
	assert.Error(t, err)
}

func TestSaturatingMulSaturatesAtCeiling(t *testing.T) {
	huge := Uint112FromUint64(1)
	huge.v.Lsh(&huge.v, 111) // 2^111
	factor := Uint112FromUint64(1000)

	got := huge.SaturatingMul(factor)

	ceiling := Uint112FromUint64(1)
	ceiling.v.Lsh(&ceiling.v, 112)
	ceiling.v.SubUint64(&ceiling.v, 1)

	assert.Equal(t, ceiling.String(), got.String())
}

func TestSaturatingMulNoOverflowIsExact(t *testing.T) {
	a := Uint112FromUint64(7)
	b := Uint112FromUint64(6)
	got := a.SaturatingMul(b)
	assert.Equal(t, "42", got.String())
}
