// Package cache implements the hot reserve-cache and token-graph (§4.4): the
// append-only adjacency/pair indices plus the mutable reserve map, in two
// interchangeable forms — a process-local implementation guarded by a
// reader-writer discipline (MemoryCache) and an external string-keyed store
// (Redis). Both must return identical results for the same sequence of
// calls, per spec.
package cache

import (
	"context"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/xerrors"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// Logger is the standard structured, leveled logging interface used across
// this module — defined locally per package, mirroring the teacher's
// chains.Logger / differ.Logger duplication.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Cache is the hot-state interface the block pipeline, resolver and cycle
// enumerator depend on. Every operation is safe to invoke concurrently (§5);
// cross-key atomicity is not required.
type Cache interface {
	// AddPair writes all three indices for a newly discovered pair:
	// adjacency (both directions), pair<->tokens (both directions), and
	// empty reserve slots if none exist yet.
	AddPair(ctx context.Context, pair domain.Pair) error

	// Adjacency returns the set of tokens sharing a pool with token under
	// dexID. Never fails; an unknown token yields an empty set.
	Adjacency(ctx context.Context, dexID domain.DexID, token domain.Address) ([]domain.Address, error)

	// PairOf resolves the pair address for an (unordered) token pair.
	PairOf(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (domain.Address, error)

	// TokensOf resolves the two tokens of a pair address, in catalogue
	// order (token0, token1).
	TokensOf(ctx context.Context, dexID domain.DexID, pair domain.Address) (token0, token1 domain.Address, err error)

	// Reserves returns (amount of tokenA, amount of tokenB) in the pool
	// they share, in the direction requested.
	Reserves(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (rA, rB fixedmath.Uint112, err error)

	// UpdateReserves records a Sync update for the pool shared by tokenA
	// and tokenB. tokenA/tokenB may arrive in either order; both directed
	// readings are stored in one logical step.
	UpdateReserves(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address, rA, rB fixedmath.Uint112) error
}

// notFound is a convenience constructor for the cache's NotFound condition.
func notFound(op string) error {
	return xerrors.New(xerrors.NotFoundCache, op, nil)
}
