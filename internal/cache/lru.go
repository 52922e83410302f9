// Package cache provides a bounded, per-invocation LRU cache for memoizing
// values such as blame results and commit metadata. No package in this
// module imports it: blame and commit metadata are read from git on every
// lookup.
// Eviction never affects correctness: every cached value is re-derivable
// from the repository by issuing the same git operation again.
package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultSize is the default maximum entry count for a new LRU, chosen
// small since it bounds memory for a single invocation, not a long-lived
// server process.
const DefaultSize = 1024

// LRU is a small, typed, concurrency-safe façade around groupcache's lru.Cache
// (the same package go-git's HTTP transport uses for response caching).
// Keys are content addresses: commit hashes for CommitReference entries,
// "hash:L1-L2" range keys for blame lookups.
type LRU[K comparable, V any] struct {
	mu    sync.Mutex
	inner *lru.Cache
}

// New creates an LRU bounded to maxEntries. A non-positive maxEntries means
// unbounded, matching groupcache/lru's own convention.
func New[K comparable, V any](maxEntries int) *LRU[K, V] {
	return &LRU[K, V]{inner: lru.New(maxEntries)}
}

// Get returns the cached value for key, if present.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	v, ok := c.inner.Get(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

// Add inserts or overwrites the cached value for key.
func (c *LRU[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Add(key, value)
}

// Len returns the number of entries currently cached.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

// GetOrLoad returns the cached value for key, loading and caching it via
// load if absent. load errors are never cached, so a transient git failure
// does not poison the cache for subsequent, possibly-successful, lookups.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Add(key, v)
	return v, nil
}
