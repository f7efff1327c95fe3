package catalogue

import (
	"context"
	"sync"

	"github.com/kronos-labs/triarb/domain"
)

// Memory is an in-process Catalogue, used by tests and by the solo-process
// deployment form that has no durability requirement across restarts.
type Memory struct {
	mu      sync.RWMutex
	pairs   map[domain.Address]domain.Pair
	symbols map[domain.Address]string
}

var _ Catalogue = (*Memory)(nil)

// NewMemory constructs an empty in-memory catalogue.
func NewMemory() *Memory {
	return &Memory{
		pairs:   make(map[domain.Address]domain.Pair),
		symbols: make(map[domain.Address]string),
	}
}

// ListPairs implements Catalogue.
func (m *Memory) ListPairs(_ context.Context) ([]domain.Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Pair, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, p)
	}
	return out, nil
}

// InsertPair implements Catalogue.
func (m *Memory) InsertPair(_ context.Context, pair domain.Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pairs[pair.Address]; ok {
		return nil
	}
	m.pairs[pair.Address] = pair
	return nil
}

// PairDex implements Catalogue.
func (m *Memory) PairDex(_ context.Context, pair domain.Address) (domain.DexID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pairs[pair]
	if !ok {
		return 0, notFound("catalogue.Memory.PairDex")
	}
	return p.DexID, nil
}

// GetSymbol implements Catalogue.
func (m *Memory) GetSymbol(_ context.Context, token domain.Address) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.symbols[token]
	if !ok {
		return "", notFound("catalogue.Memory.GetSymbol")
	}
	return s, nil
}

// InsertSymbol implements Catalogue.
func (m *Memory) InsertSymbol(_ context.Context, token domain.Address, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[token] = symbol
	return nil
}
