package fixedmath

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproxLog2Accuracy(t *testing.T) {
	cases := []uint64{1, 2, 3, 1000, 1 << 20, 1<<53 + 7}

	for _, v := range cases {
		u := Uint112FromUint64(v)
		got := ApproxLog2(u)
		want := math.Log2(float64(v))
		assert.InDelta(t, want, got, math.Pow(2, -44), "value %d", v)
	}
}

func TestApproxLog2LargeReserve(t *testing.T) {
	// A reserve of about 2^81, well past 64 bits, as seen in the Rust source's
	// captured logs (crates/math/src/cpmm.rs test fixtures).
	big112, ok := new(big.Int).SetString("2782290017905555178812751", 10)
	require.True(t, ok)
	u, err := Uint112FromBig(big112)
	require.NoError(t, err)

	got := ApproxLog2(u)
	f := new(big.Float).SetInt(big112)
	v, _ := f.Float64()
	want := math.Log2(v)
	assert.InDelta(t, want, got, math.Pow(2, -40))
}
