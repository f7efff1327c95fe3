package cache

import (
	"sync"

	"github.com/kronos-labs/triarb/domain"
)

// tokenArena interns token addresses into a dense, append-only index space,
// per Design Note §9: "allocate edges out of an arena so updated_tokens can
// be a compact vector of 32-bit indices rather than copies of 20-byte
// addresses." The adjacency bitsets in MemoryCache are indexed by the values
// this arena hands out.
type tokenArena struct {
	mu      sync.RWMutex
	byAddr  map[domain.Address]uint32
	byIndex []domain.Address
}

func newTokenArena() *tokenArena {
	return &tokenArena{byAddr: make(map[domain.Address]uint32)}
}

// intern returns the index for addr, assigning the next index if addr has
// never been seen before.
func (a *tokenArena) intern(addr domain.Address) uint32 {
	a.mu.RLock()
	if idx, ok := a.byAddr[addr]; ok {
		a.mu.RUnlock()
		return idx
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if idx, ok := a.byAddr[addr]; ok {
		return idx
	}
	idx := uint32(len(a.byIndex))
	a.byIndex = append(a.byIndex, addr)
	a.byAddr[addr] = idx
	return idx
}

func (a *tokenArena) lookup(addr domain.Address) (uint32, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	idx, ok := a.byAddr[addr]
	return idx, ok
}

func (a *tokenArena) address(idx uint32) domain.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.byIndex[idx]
}

func (a *tokenArena) len() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint64(len(a.byIndex))
}
