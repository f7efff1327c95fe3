package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

func r(v uint64) fixedmath.Uint112 { return fixedmath.Uint112FromUint64(v) }

func TestSwapOutputMonotoneAndZero(t *testing.T) {
	x, y := r(1000), r(2000)
	fee := fixedmath.Fee(3)

	zero := SwapOutput(r(0), x, y, fee)
	assert.True(t, zero.IsZero())

	prev := zero
	for _, dxv := range []uint64{1, 10, 100, 1000, 10000} {
		out := SwapOutput(r(dxv), x, y, fee)
		assert.True(t, out.Cmp(prev) >= 0, "swap output must be non-decreasing in dx")
		assert.True(t, out.LtUint112(y), "swap output must stay strictly below reserve y")
		prev = out
	}
}

func TestCycleFeasibleSeedCaseTwo(t *testing.T) {
	// spec.md §8 scenario 2: feasible cycle.
	fee := fixedmath.Fee(3)
	legs := []domain.ReservePair{
		{In: r(1000), Out: r(2000)},
		{In: r(2000), Out: r(1500)},
		{In: r(1500), Out: r(1100)},
	}

	var sum float64
	for _, leg := range legs {
		sum += PriceLog(fee, leg.In, leg.Out)
	}
	require.Greater(t, sum, 0.0)
	assert.True(t, CycleFeasible(fee, legs))
}

func TestCycleFeasibleSeedCaseThree(t *testing.T) {
	// spec.md §8 scenario 3: infeasible cycle, fee drag dominates.
	fee := fixedmath.Fee(3)
	legs := []domain.ReservePair{
		{In: r(1000), Out: r(1000)},
		{In: r(1000), Out: r(1000)},
		{In: r(1000), Out: r(1000)},
	}

	var sum float64
	for _, leg := range legs {
		sum += PriceLog(fee, leg.In, leg.Out)
	}
	require.Less(t, sum, 0.0)
	assert.False(t, CycleFeasible(fee, legs))
}
