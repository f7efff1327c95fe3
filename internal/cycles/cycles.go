// Package cycles implements the triangular cycle enumerator (C7, §4.7):
// given a set of tokens whose reserves changed this block, walk the
// adjacency graph two hops out and test every closing edge for fee-aware
// feasibility.
package cycles

import (
	"context"
	"sort"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/cache"
	"github.com/kronos-labs/triarb/pkg/amm"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// Enumerator finds feasible triangular cycles per §4.7, given the graph
// exposed by the hot cache and a fee shared by every pool on the dex (CPMM
// pools on one venue charge one fee).
type Enumerator struct {
	dexID domain.DexID
	fee   fixedmath.Fee
	graph cache.Cache
}

// New constructs an Enumerator for one dex/fee pair.
func New(dexID domain.DexID, fee fixedmath.Fee, graph cache.Cache) *Enumerator {
	return &Enumerator{dexID: dexID, fee: fee, graph: graph}
}

// Find enumerates every feasible three-hop cycle seeded by the distinct
// tokens in updatedTokens, per §4.7's nested-adjacency walk. Reserve reads
// that fail (budget exhaustion or a cold cache entry) silently skip that
// cycle, per "a cycle whose reserves cannot be fetched within budget is
// skipped without error."
func (e *Enumerator) Find(ctx context.Context, updatedTokens []domain.Address) ([]domain.Cycle, error) {
	seen := make(map[domain.Address]struct{}, len(updatedTokens))
	var starts []domain.Address
	for _, t := range updatedTokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		starts = append(starts, t)
	}
	sort.Slice(starts, func(i, j int) bool {
		return lessAddress(starts[i], starts[j])
	})

	var cycles []domain.Cycle
	for _, t0 := range starts {
		n0, err := e.graph.Adjacency(ctx, e.dexID, t0)
		if err != nil {
			continue
		}
		n0Set := make(map[domain.Address]struct{}, len(n0))
		for _, t := range n0 {
			n0Set[t] = struct{}{}
		}
		sort.Slice(n0, func(i, j int) bool { return lessAddress(n0[i], n0[j]) })

		for _, t1 := range n0 {
			if t1 == t0 {
				continue
			}
			n1, err := e.graph.Adjacency(ctx, e.dexID, t1)
			if err != nil {
				continue
			}
			sort.Slice(n1, func(i, j int) bool { return lessAddress(n1[i], n1[j]) })

			for _, t2 := range n1 {
				if t2 == t0 || t2 == t1 {
					continue
				}
				if _, ok := n0Set[t2]; !ok {
					continue
				}
				cycle, feasible, err := e.buildCycle(ctx, t0, t1, t2)
				if err != nil {
					continue
				}
				if feasible {
					cycles = append(cycles, cycle)
				}
			}
		}
	}
	return cycles, nil
}

func (e *Enumerator) buildCycle(ctx context.Context, t0, t1, t2 domain.Address) (domain.Cycle, bool, error) {
	legs := [3]domain.Leg{
		{TokenIn: t0, TokenOut: t1},
		{TokenIn: t1, TokenOut: t2},
		{TokenIn: t2, TokenOut: t0},
	}

	var reserves [3]domain.ReservePair
	var feasibilityInputs []domain.ReservePair
	for i, leg := range legs {
		in, out, err := e.graph.Reserves(ctx, e.dexID, leg.TokenIn, leg.TokenOut)
		if err != nil {
			return domain.Cycle{}, false, err
		}
		reserves[i] = domain.ReservePair{In: in, Out: out}
		feasibilityInputs = append(feasibilityInputs, reserves[i])
	}

	cycle := domain.Cycle{DexID: e.dexID, Fee: e.fee, Legs: legs, Reserves: reserves}
	feasible := amm.CycleFeasible(e.fee, feasibilityInputs)
	return cycle, feasible, nil
}

func lessAddress(a, b domain.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
