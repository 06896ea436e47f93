package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps products in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewMemoryStore returns a store seeded with products.
func NewMemoryStore(products ...Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

// Get returns a product by id, active or not.
func (s *MemoryStore) Get(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[strings.TrimSpace(id)]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// List returns active products sorted by name.
func (s *MemoryStore) List(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Upsert inserts or replaces a product.
func (s *MemoryStore) Upsert(_ context.Context, p Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("catalog: product id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}
