package cache

import (
	"context"
	"sync"

	"github.com/kronos-labs/triarb/bitset"
	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// pairKey sorts (tokenA, tokenB) so the pair<->tokens index is keyed
// consistently regardless of call order, per §4.4.
func pairKey(a, b domain.Address) [2]domain.Address {
	if bytesLess(b[:], a[:]) {
		return [2]domain.Address{b, a}
	}
	return [2]domain.Address{a, b}
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// dexState is the per-dex slice of the hot cache.
type dexState struct {
	arena *tokenArena

	mu         sync.RWMutex
	adjacency  map[uint32]bitset.BitSet
	pairByKeys map[[2]domain.Address]domain.Address
	tokensOf   map[domain.Address][2]domain.Address
	// reserves[reserveKey(inIdx, outIdx)] = amount of the in-token in the pool
	// shared with the out-token — the minimal representation from §3:
	// "reserves(dex_id, tokenA, tokenB) = amount-of-A-in-pool".
	reserves map[uint64]fixedmath.Uint112
}

func newDexState() *dexState {
	return &dexState{
		arena:      newTokenArena(),
		adjacency:  make(map[uint32]bitset.BitSet),
		pairByKeys: make(map[[2]domain.Address]domain.Address),
		tokensOf:   make(map[domain.Address][2]domain.Address),
		reserves:   make(map[uint64]fixedmath.Uint112),
	}
}

func reserveKey(inIdx, outIdx uint32) uint64 {
	return uint64(inIdx)<<32 | uint64(outIdx)
}

// row returns the adjacency bitset for tokenIdx, growing it to the arena's
// current size if it has fallen behind (lazy growth when AddPair touches the
// row under the write lock, amortized: Grow is a no-op once a row already
// spans the current word count).
func (d *dexState) row(tokenIdx uint32) bitset.BitSet {
	row, ok := d.adjacency[tokenIdx]
	if !ok {
		row = bitset.NewBitSet(d.arena.len())
	} else {
		row = row.Grow(d.arena.len())
	}
	d.adjacency[tokenIdx] = row
	return row
}

// MemoryCache is the process-local hot cache: one dexState per DEX, each
// backed by an append-only token arena and bitset adjacency rows, guarded by
// a reader-writer mutex per dex. This satisfies the "process-local maps
// guarded by a reader-writer discipline" form from §4.4(i).
type MemoryCache struct {
	mu   sync.RWMutex
	dexs map[domain.DexID]*dexState
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache constructs an empty in-memory hot cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{dexs: make(map[domain.DexID]*dexState)}
}

func (c *MemoryCache) dex(id domain.DexID) *dexState {
	c.mu.RLock()
	d, ok := c.dexs[id]
	c.mu.RUnlock()
	if ok {
		return d
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.dexs[id]; ok {
		return d
	}
	d := newDexState()
	c.dexs[id] = d
	return d
}

// AddPair implements Cache.
func (c *MemoryCache) AddPair(_ context.Context, pair domain.Pair) error {
	d := c.dex(pair.DexID)
	idx0 := d.arena.intern(pair.Token0)
	idx1 := d.arena.intern(pair.Token1)

	d.mu.Lock()
	defer d.mu.Unlock()

	row0 := d.row(idx0)
	row1 := d.row(idx1)
	row0.Set(uint64(idx1))
	row1.Set(uint64(idx0))

	k := pairKey(pair.Token0, pair.Token1)
	d.pairByKeys[k] = pair.Address
	d.tokensOf[pair.Address] = [2]domain.Address{pair.Token0, pair.Token1}

	if _, ok := d.reserves[reserveKey(idx0, idx1)]; !ok {
		d.reserves[reserveKey(idx0, idx1)] = fixedmath.Uint112{}
		d.reserves[reserveKey(idx1, idx0)] = fixedmath.Uint112{}
	}
	return nil
}

// Adjacency implements Cache.
func (c *MemoryCache) Adjacency(_ context.Context, dexID domain.DexID, token domain.Address) ([]domain.Address, error) {
	d := c.dex(dexID)
	idx, ok := d.arena.lookup(token)
	if !ok {
		return nil, nil
	}

	d.mu.RLock()
	row, ok := d.adjacency[idx]
	if !ok {
		d.mu.RUnlock()
		return nil, nil
	}
	indices := row.Iter(d.arena.len())
	d.mu.RUnlock()

	out := make([]domain.Address, len(indices))
	for i, tokenIdx := range indices {
		out[i] = d.arena.address(uint32(tokenIdx))
	}
	return out, nil
}

// PairOf implements Cache.
func (c *MemoryCache) PairOf(_ context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (domain.Address, error) {
	d := c.dex(dexID)
	d.mu.RLock()
	defer d.mu.RUnlock()
	addr, ok := d.pairByKeys[pairKey(tokenA, tokenB)]
	if !ok {
		return domain.Address{}, notFound("cache.PairOf")
	}
	return addr, nil
}

// TokensOf implements Cache.
func (c *MemoryCache) TokensOf(_ context.Context, dexID domain.DexID, pair domain.Address) (domain.Address, domain.Address, error) {
	d := c.dex(dexID)
	d.mu.RLock()
	defer d.mu.RUnlock()
	tokens, ok := d.tokensOf[pair]
	if !ok {
		return domain.Address{}, domain.Address{}, notFound("cache.TokensOf")
	}
	return tokens[0], tokens[1], nil
}

// Reserves implements Cache.
func (c *MemoryCache) Reserves(_ context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (fixedmath.Uint112, fixedmath.Uint112, error) {
	d := c.dex(dexID)
	idxA, okA := d.arena.lookup(tokenA)
	idxB, okB := d.arena.lookup(tokenB)
	if !okA || !okB {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Reserves")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	rA, ok := d.reserves[reserveKey(idxA, idxB)]
	if !ok {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Reserves")
	}
	rB, ok := d.reserves[reserveKey(idxB, idxA)]
	if !ok {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Reserves")
	}
	return rA, rB, nil
}

// UpdateReserves implements Cache. Both directed readings are written under
// one write-lock acquisition, satisfying the "any update updates both sides
// in one logical step" invariant from §3.
func (c *MemoryCache) UpdateReserves(_ context.Context, dexID domain.DexID, tokenA, tokenB domain.Address, rA, rB fixedmath.Uint112) error {
	d := c.dex(dexID)
	idxA := d.arena.intern(tokenA)
	idxB := d.arena.intern(tokenB)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.reserves[reserveKey(idxA, idxB)] = rA
	d.reserves[reserveKey(idxB, idxA)] = rB
	return nil
}
