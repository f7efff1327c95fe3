// Package resolver implements the pair resolver (C5, §4.5): given a Sync
// event from an unknown pool, decide whether it belongs to this DEX and, if
// so, mint the Pair record and project it into the catalogue and cache.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/catalogue"
	"github.com/kronos-labs/triarb/internal/chain"
	"github.com/kronos-labs/triarb/internal/cache"
	"github.com/kronos-labs/triarb/internal/pipeline/budget"
	"github.com/kronos-labs/triarb/internal/xerrors"
)

// Logger is the structured, leveled logging interface this package depends
// on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ErrNotOurs means the pool belongs to another venue or another factory —
// the caller should skip the log without treating it as an error.
var ErrNotOurs = errors.New("resolver: pool does not belong to this dex")

// Resolver implements the three-step vetting procedure from §4.5.
type Resolver struct {
	dexID   domain.DexID
	factory domain.Address
	cat     catalogue.Catalogue
	probe   chain.PoolProbe
	cache   cache.Cache
	budget  *budget.Budget
	logger  Logger
}

// New constructs a Resolver for one DEX/factory pair.
func New(dexID domain.DexID, factory domain.Address, cat catalogue.Catalogue, probe chain.PoolProbe, c cache.Cache, b *budget.Budget, logger Logger) *Resolver {
	return &Resolver{dexID: dexID, factory: factory, cat: cat, probe: probe, cache: c, budget: b, logger: logger}
}

// Resolve runs the three steps of §4.5 for a pool address observed in a
// reserve-update event. Returns ErrNotOurs if the pool belongs elsewhere,
// the pool's resolved Pair on success, or a BudgetExceeded/transient error.
func (r *Resolver) Resolve(ctx context.Context, pool domain.Address) (domain.Pair, error) {
	// 1. Consult the catalogue.
	existingDex, err := r.cat.PairDex(ctx, pool)
	if err == nil {
		if existingDex != r.dexID {
			return domain.Pair{}, ErrNotOurs
		}
		t0, t1, err := r.cache.TokensOf(ctx, r.dexID, pool)
		if err == nil {
			return domain.Pair{Address: pool, DexID: r.dexID, Token0: t0, Token1: t1}, nil
		}
		// Known to the catalogue but not yet cached: fall through to rebuild
		// the Pair from chain reads below.
	} else if !xerrors.Is(err, xerrors.NotFoundCatalogue) {
		return domain.Pair{}, fmt.Errorf("resolver: catalogue lookup: %w", err)
	}

	// 2. Probe on-chain: factory() must match this DEX's configured factory.
	if !r.budget.TryCharge() {
		return domain.Pair{}, xerrors.New(xerrors.BudgetExceeded, "resolver.Resolve", nil)
	}
	factory, err := r.probe.Factory(ctx, pool)
	if err != nil {
		return domain.Pair{}, xerrors.New(xerrors.Transient, "resolver.Resolve.Factory", err)
	}
	if factory != r.factory {
		return domain.Pair{}, ErrNotOurs
	}

	// 3. Read token0/token1, persist, and best-effort symbol lookups.
	if !r.budget.TryCharge() {
		return domain.Pair{}, xerrors.New(xerrors.BudgetExceeded, "resolver.Resolve", nil)
	}
	token0, err := r.probe.Token0(ctx, pool)
	if err != nil {
		return domain.Pair{}, xerrors.New(xerrors.Transient, "resolver.Resolve.Token0", err)
	}

	if !r.budget.TryCharge() {
		return domain.Pair{}, xerrors.New(xerrors.BudgetExceeded, "resolver.Resolve", nil)
	}
	token1, err := r.probe.Token1(ctx, pool)
	if err != nil {
		return domain.Pair{}, xerrors.New(xerrors.Transient, "resolver.Resolve.Token1", err)
	}

	pair := domain.Pair{Address: pool, DexID: r.dexID, Token0: token0, Token1: token1}

	if err := r.cat.InsertPair(ctx, pair); err != nil && !xerrors.Is(err, xerrors.CatalogueIntegrity) {
		return domain.Pair{}, fmt.Errorf("resolver: insert pair: %w", err)
	}
	if err := r.cache.AddPair(ctx, pair); err != nil {
		return domain.Pair{}, fmt.Errorf("resolver: add pair to cache: %w", err)
	}

	r.fetchSymbolBestEffort(ctx, token0)
	r.fetchSymbolBestEffort(ctx, token1)

	return pair, nil
}

// fetchSymbolBestEffort is step 3's "lazily fetch symbols" clause: failures
// are logged, never propagated.
func (r *Resolver) fetchSymbolBestEffort(ctx context.Context, token domain.Address) {
	if _, err := r.cat.GetSymbol(ctx, token); err == nil {
		return
	}
	if !r.budget.TryCharge() {
		return
	}
	symbol, err := r.probe.Symbol(ctx, token)
	if err != nil {
		r.logger.Warn("resolver: symbol lookup failed", "token", token, "err", err)
		return
	}
	if err := r.cat.InsertSymbol(ctx, token, symbol); err != nil {
		r.logger.Warn("resolver: symbol insert failed", "token", token, "err", err)
	}
}
