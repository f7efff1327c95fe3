// Package catalogue implements the durable pair/symbol store (§4.3): the
// system of record for pair existence, projected lazily into the hot cache.
// Two forms exist: Postgres (pgx) for production, and an in-memory form used
// by tests and by components that do not need durability across restarts.
package catalogue

import (
	"context"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/xerrors"
)

// Catalogue is the durable-store interface every other component depends on.
type Catalogue interface {
	// ListPairs returns every known pair, used at startup to prime the cache.
	ListPairs(ctx context.Context) ([]domain.Pair, error)

	// InsertPair persists a newly discovered pair. Idempotent: re-inserting
	// an address already on file is a no-op, not an error, matching §4.3's
	// "duplicate insert must be a no-op or a soft error."
	InsertPair(ctx context.Context, pair domain.Pair) error

	// PairDex resolves the dex a pair address was registered under.
	PairDex(ctx context.Context, pair domain.Address) (domain.DexID, error)

	// GetSymbol returns a token's ticker, if recorded.
	GetSymbol(ctx context.Context, token domain.Address) (string, error)

	// InsertSymbol records a token's ticker. Best-effort: callers should not
	// fail pair discovery if this fails.
	InsertSymbol(ctx context.Context, token domain.Address, symbol string) error
}

func notFound(op string) error {
	return xerrors.New(xerrors.NotFoundCatalogue, op, nil)
}
