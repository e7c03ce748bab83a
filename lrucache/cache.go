/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"container/list"
	"fmt"
	"sync"
)

type cacheEntry[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache is a cache of a fixed number of entries. When it's full, adding a new entry evicts the least recently used one.
// It's safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	maxEntries int

	mu      sync.Mutex
	lruList *list.List
	entries map[K]*list.Element

	metrics MetricsCollector
}

// New creates a new LRUCache. Metrics collector may be nil, in this case metrics are disabled.
func New[K comparable, V any](maxEntries int, metricsCollector MetricsCollector) (*LRUCache[K, V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("maxEntries must be greater than 0")
	}
	if metricsCollector == nil {
		metricsCollector = disabledMetrics{}
	}
	return &LRUCache[K, V]{
		maxEntries: maxEntries,
		lruList:    list.New(),
		entries:    make(map[K]*list.Element),
		metrics:    metricsCollector,
	}, nil
}

// Get returns a value by key and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, hit := c.entries[key]
	if !hit {
		c.metrics.IncMisses()
		return value, false
	}
	c.lruList.MoveToFront(elem)
	c.metrics.IncHits()
	return elem.Value.(*cacheEntry[K, V]).value, true
}

// Add adds or replaces a value by key.
func (c *LRUCache[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry[K, V]).value = value
		c.lruList.MoveToFront(elem)
		return
	}
	c.entries[key] = c.lruList.PushFront(&cacheEntry[K, V]{key: key, value: value})
	if len(c.entries) > c.maxEntries {
		oldest := c.lruList.Back()
		c.lruList.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry[K, V]).key)
		c.metrics.AddEvictions(1)
	}
	c.metrics.SetAmount(len(c.entries))
}

// Remove removes a value by key and reports whether it was present.
func (c *LRUCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lruList.Remove(elem)
	delete(c.entries, key)
	c.metrics.SetAmount(len(c.entries))
	return true
}

// Purge removes all entries. Removed entries are not counted as evictions.
func (c *LRUCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.lruList.Init()
	c.metrics.SetAmount(0)
}

// Len returns the number of entries in the cache.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
