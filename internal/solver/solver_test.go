package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/amm"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

func addr(b byte) domain.Address {
	var a domain.Address
	a[19] = b
	return a
}

func r(v uint64) fixedmath.Uint112 { return fixedmath.Uint112FromUint64(v) }

func feasibleCycle() domain.Cycle {
	a, b, c := addr(1), addr(2), addr(3)
	return domain.Cycle{
		DexID: 1,
		Fee:   3,
		Legs: [3]domain.Leg{
			{TokenIn: a, TokenOut: b},
			{TokenIn: b, TokenOut: c},
			{TokenIn: c, TokenOut: a},
		},
		Reserves: [3]domain.ReservePair{
			{In: r(1000), Out: r(2000)},
			{In: r(2000), Out: r(1500)},
			{In: r(1500), Out: r(1100)},
		},
	}
}

func infeasibleCycle() domain.Cycle {
	a, b, c := addr(1), addr(2), addr(3)
	return domain.Cycle{
		DexID: 1,
		Fee:   3,
		Legs: [3]domain.Leg{
			{TokenIn: a, TokenOut: b},
			{TokenIn: b, TokenOut: c},
			{TokenIn: c, TokenOut: a},
		},
		Reserves: [3]domain.ReservePair{
			{In: r(1000), Out: r(1000)},
			{In: r(1000), Out: r(1000)},
			{In: r(1000), Out: r(1000)},
		},
	}
}

func TestSolve_FeasibleCycleFindsPositiveRevenue(t *testing.T) {
	cycle := feasibleCycle()

	// Sanity check: the fee-aware feasibility gate agrees this cycle should
	// admit positive profit, per §8 seed scenario 2.
	var legs []domain.ReservePair
	legs = append(legs, cycle.Reserves[:]...)
	require.True(t, amm.CycleFeasible(cycle.Fee, legs))

	arb, ok := Solve(cycle)
	require.True(t, ok)
	assert.False(t, arb.Revenue.IsZero())
	assert.Equal(t, cycle.DexID, arb.DexID)
	assert.Equal(t, addr(1), arb.StartToken())
}

func TestSolve_InfeasibleCycleFindsNoProfit(t *testing.T) {
	cycle := infeasibleCycle()

	var legs []domain.ReservePair
	legs = append(legs, cycle.Reserves[:]...)
	require.False(t, amm.CycleFeasible(cycle.Fee, legs))

	_, ok := Solve(cycle)
	assert.False(t, ok)
}

func TestBestPerStartToken_KeepsMaxRevenuePerStart(t *testing.T) {
	start := addr(1)
	arbs := []domain.Arbitrage{
		{DexID: 1, Revenue: fixedmath.Uint256FromUint64(5), Path: []domain.Leg{{TokenIn: start, TokenOut: addr(2)}}},
		{DexID: 1, Revenue: fixedmath.Uint256FromUint64(50), Path: []domain.Leg{{TokenIn: start, TokenOut: addr(3)}}},
		{DexID: 1, Revenue: fixedmath.Uint256FromUint64(10), Path: []domain.Leg{{TokenIn: addr(9), TokenOut: addr(2)}}},
	}

	best := BestPerStartToken(arbs)
	require.Len(t, best, 2)

	for _, a := range best {
		if a.StartToken() == start {
			assert.Equal(t, "50", a.Revenue.String())
		}
	}
}
