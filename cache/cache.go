// Package cache is a small in-memory TTL cache. The robots checker keeps
// parsed robots.txt policies in it so repeated comparisons of the same
// origins do not refetch them.
package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value with its creation timestamp.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache maps string keys to values that expire after ttl.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu         sync.RWMutex
	store      map[string]*entry[V]
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache holding at most maxEntries values for ttl each.
// A background goroutine evicts expired entries every ttl until ctx is done.
func New[V any](ctx context.Context, maxEntries int, ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		store:      make(map[string]*entry[V]),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}

	if ttl > 0 {
		go c.cleanupLoop(ctx)
	}
	return c
}

// Get returns the value for key if present and younger than the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	var zero V
	if !ok || c.expired(e) {
		return zero, false
	}
	return e.value, true
}

// Set stores a value. If the cache is at capacity, a random entry is
// evicted to make room.
func (c *Cache[V]) Set(key string, v V) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Map iteration order is random, so this drops an arbitrary entry.
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry[V]{value: v, createdAt: c.now()}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.createdAt) > c.ttl
}

// evict drops every expired entry.
func (c *Cache[V]) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.store {
		if c.expired(e) {
			delete(c.store, k)
		}
	}
}

func (c *Cache[V]) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evict()
		}
	}
}
