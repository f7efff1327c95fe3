// Package domain holds the data model shared by every component of the
// arbitrage detector: addresses, pairs, reserves and the arbitrage
// opportunities that fall out of the profit solver. It intentionally has no
// dependency on any other package in this module.
package domain

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// DexID identifies a constant-product DEX family. One small integer is
// assigned per venue at catalogue-insertion time; the hot path never carries
// the venue's name.
type DexID int32

// Address is a 20-byte chain identifier, reused directly from go-ethereum so
// every component shares the same total order (lexicographic byte compare)
// and encoding.
type Address = common.Address

// Hash is a 32-byte chain hash — used here for log topics (event
// signatures), reused directly from go-ethereum for the same reason as
// Address.
type Hash = common.Hash

// Pair is a liquidity pool record. Created once on first observation, never
// mutated afterwards — reserve changes live on the cache's reserve map, not
// here. Token0 < Token1 under Address's byte order.
type Pair struct {
	Address Address
	DexID   DexID
	Token0  Address
	Token1  Address
}

// Leg is one directed hop of a cycle: swap TokenIn for TokenOut.
type Leg struct {
	TokenIn  Address
	TokenOut Address
}

// Cycle is a closed three-hop path: Legs[2].TokenOut == Legs[0].TokenIn.
type Cycle struct {
	DexID DexID
	Fee   fixedmath.Fee
	Legs  [3]Leg
	// Reserves[i] holds (amount of Legs[i].TokenIn, amount of Legs[i].TokenOut)
	// in the pool shared by that leg's two tokens.
	Reserves [3]ReservePair
}

// ReservePair is a directed reserve reading: In is the amount of the
// in-token locked in the pool, Out the amount of the out-token.
type ReservePair struct {
	In  fixedmath.Uint112
	Out fixedmath.Uint112
}

// Arbitrage is an opportunity discovered by the profit solver. Immutable
// once emitted; it exists only in transit on the output queue.
type Arbitrage struct {
	DexID    DexID
	AmountIn fixedmath.Uint256
	Revenue  fixedmath.Uint256
	Path     []Leg
}

// StartToken is the source token of the first leg — the key used for
// per-block, per-start-token deduplication (§4.8).
func (a Arbitrage) StartToken() Address {
	if len(a.Path) == 0 {
		return Address{}
	}
	return a.Path[0].TokenIn
}
