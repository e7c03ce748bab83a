/*
Copyright © 2025 GameBuddy.

Released under MIT license.
*/

package store

import (
	"context"

	"github.com/gamebuddyapp/teeto/lrucache"
)

// DefaultMemoryStoreMaxEntries is the default capacity of MemoryStore.
const DefaultMemoryStoreMaxEntries = 10000

// MemoryStore is an in-process Store with bounded capacity.
// It's suitable when a single process talks to the API.
type MemoryStore struct {
	cache *lrucache.LRUCache[string, string]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore. Metrics collector may be nil.
func NewMemoryStore(maxEntries int, metricsCollector lrucache.MetricsCollector) (*MemoryStore, error) {
	if maxEntries == 0 {
		maxEntries = DefaultMemoryStoreMaxEntries
	}
	cache, err := lrucache.New[string, string](maxEntries, metricsCollector)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache}, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	val, ok := s.cache.Get(key)
	return val, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.Add(key, value)
	return nil
}
