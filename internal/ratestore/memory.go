package ratestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/hiquote/internal/rates"
)

// MemoryStore implements Store using an in-memory map. Thread-safe.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	info ProductInfo
	data []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a decoded copy so callers never share tables with the store
func (s *MemoryStore) Get(_ context.Context, productID string) (*rates.Config, error) {
	s.mu.RLock()
	entry, ok := s.entries[productID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return decodeConfig(entry.data)
}

func (s *MemoryStore) Put(_ context.Context, cfg *rates.Config) error {
	data, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[cfg.ProductID] = memoryEntry{
		info: ProductInfo{
			ProductID:   cfg.ProductID,
			Description: cfg.Description,
			UpdatedAt:   s.now().UTC(),
		},
		data: data,
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[productID]; !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	delete(s.entries, productID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]ProductInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ProductInfo, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
