package catalogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-labs/triarb/domain"
)

func addr(b byte) domain.Address {
	var a domain.Address
	a[19] = b
	return a
}

func TestMemory_InsertAndListPairs(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	p := domain.Pair{Address: addr(1), DexID: 3, Token0: addr(2), Token1: addr(4)}
	require.NoError(t, c.InsertPair(ctx, p))

	pairs, err := c.ListPairs(ctx)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
	assert.Equal(t, p, pairs[0])

	dexID, err := c.PairDex(ctx, p.Address)
	require.NoError(t, err)
	assert.Equal(t, domain.DexID(3), dexID)
}

func TestMemory_InsertPairIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	p := domain.Pair{Address: addr(1), DexID: 3, Token0: addr(2), Token1: addr(4)}
	require.NoError(t, c.InsertPair(ctx, p))
	// Re-inserting the same address with different token fields must not
	// overwrite the existing record nor error, per §4.3.
	require.NoError(t, c.InsertPair(ctx, domain.Pair{Address: addr(1), DexID: 9, Token0: addr(5), Token1: addr(6)}))

	pairs, err := c.ListPairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, domain.DexID(3), pairs[0].DexID)
}

func TestMemory_PairDexNotFound(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, err := c.PairDex(ctx, addr(99))
	assert.Error(t, err)
}

func TestMemory_SymbolRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	token := addr(1)
	_, err := c.GetSymbol(ctx, token)
	assert.Error(t, err)

	require.NoError(t, c.InsertSymbol(ctx, token, "WETH"))
	sym, err := c.GetSymbol(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "WETH", sym)

	require.NoError(t, c.InsertSymbol(ctx, token, "WETH9"))
	sym, err = c.GetSymbol(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "WETH9", sym)
}
