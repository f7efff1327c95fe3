package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/cache"
	"github.com/kronos-labs/triarb/internal/catalogue"
	"github.com/kronos-labs/triarb/internal/pipeline/budget"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

func addr(b byte) domain.Address {
	var a domain.Address
	a[19] = b
	return a
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type stubProbe struct {
	factory domain.Address
	token0  domain.Address
	token1  domain.Address
	symbols map[domain.Address]string
}

func (p *stubProbe) Token0(context.Context, domain.Address) (domain.Address, error) { return p.token0, nil }
func (p *stubProbe) Token1(context.Context, domain.Address) (domain.Address, error) { return p.token1, nil }
func (p *stubProbe) Factory(context.Context, domain.Address) (domain.Address, error) {
	return p.factory, nil
}
func (p *stubProbe) GetReserves(context.Context, domain.Address) (fixedmath.Uint112, fixedmath.Uint112, error) {
	return fixedmath.Uint112{}, fixedmath.Uint112{}, nil
}
func (p *stubProbe) Symbol(_ context.Context, token domain.Address) (string, error) {
	return p.symbols[token], nil
}

func TestResolver_NewPairDiscovery(t *testing.T) {
	ctx := context.Background()
	factory := addr(1)
	token0, token1 := addr(2), addr(3)
	pool := addr(4)

	probe := &stubProbe{factory: factory, token0: token0, token1: token1, symbols: map[domain.Address]string{
		token0: "WETH",
		token1: "USDC",
	}}
	cat := catalogue.NewMemory()
	c := cache.NewMemoryCache()
	b := budget.New(100)

	r := New(1, factory, cat, probe, c, b, noopLogger{})

	pair, err := r.Resolve(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, pool, pair.Address)
	assert.Equal(t, token0, pair.Token0)
	assert.Equal(t, token1, pair.Token1)

	pairs, err := cat.ListPairs(ctx)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)

	adj, err := c.Adjacency(ctx, 1, token0)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{token1}, adj)
}

func TestResolver_ForeignPoolSkipped(t *testing.T) {
	ctx := context.Background()
	ourFactory := addr(1)
	foreignFactory := addr(9)
	pool := addr(4)

	probe := &stubProbe{factory: foreignFactory, token0: addr(2), token1: addr(3), symbols: map[domain.Address]string{}}
	cat := catalogue.NewMemory()
	c := cache.NewMemoryCache()
	b := budget.New(100)

	r := New(1, ourFactory, cat, probe, c, b, noopLogger{})

	_, err := r.Resolve(ctx, pool)
	assert.ErrorIs(t, err, ErrNotOurs)

	pairs, err := cat.ListPairs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestResolver_AlreadyOursSkipsChainProbe(t *testing.T) {
	ctx := context.Background()
	factory := addr(1)
	token0, token1 := addr(2), addr(3)
	pool := addr(4)

	cat := catalogue.NewMemory()
	require.NoError(t, cat.InsertPair(ctx, domain.Pair{Address: pool, DexID: 1, Token0: token0, Token1: token1}))
	c := cache.NewMemoryCache()
	require.NoError(t, c.AddPair(ctx, domain.Pair{Address: pool, DexID: 1, Token0: token0, Token1: token1}))

	b := budget.New(0) // no RPC budget: should never be needed on a hit
	probe := &stubProbe{factory: factory}

	r := New(1, factory, cat, probe, c, b, noopLogger{})
	pair, err := r.Resolve(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, token0, pair.Token0)
}

func TestResolver_AnotherDexSameAddressIsNotOurs(t *testing.T) {
	ctx := context.Background()
	pool := addr(4)
	cat := catalogue.NewMemory()
	require.NoError(t, cat.InsertPair(ctx, domain.Pair{Address: pool, DexID: 2, Token0: addr(2), Token1: addr(3)}))
	c := cache.NewMemoryCache()
	b := budget.New(100)
	probe := &stubProbe{factory: addr(1)}

	r := New(1, addr(1), cat, probe, c, b, noopLogger{})
	_, err := r.Resolve(ctx, pool)
	assert.ErrorIs(t, err, ErrNotOurs)
}

func TestResolver_BudgetExhaustion(t *testing.T) {
	ctx := context.Background()
	factory := addr(1)
	pool := addr(4)
	probe := &stubProbe{factory: factory, token0: addr(2), token1: addr(3)}
	cat := catalogue.NewMemory()
	c := cache.NewMemoryCache()
	b := budget.New(1) // only enough for the factory() probe

	r := New(1, factory, cat, probe, c, b, noopLogger{})
	_, err := r.Resolve(ctx, pool)
	assert.Error(t, err)

	pairs, err := cat.ListPairs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
