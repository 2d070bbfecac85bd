// Package cache memoizes extraction output keyed by content fingerprint.
package cache

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the per-namespace entry limit.
const DefaultCapacity = 50

// ComputeFunc produces the value for a missing key.
type ComputeFunc func(ctx context.Context) (string, error)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
}

// LRU is a bounded, concurrency-safe string cache. Concurrent misses on the
// same key share one computation. Failed computations are not stored.
type LRU struct {
	name  string
	mu    sync.Mutex
	lru   *lru.Cache
	group singleflight.Group
	stats Stats
}

// New returns an LRU holding at most capacity entries (DefaultCapacity if <= 0).
func New(name string, capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &LRU{name: name}
	c.lru = lru.New(capacity)
	c.lru.OnEvicted = func(lru.Key, interface{}) { c.stats.Evictions++ }
	return c
}

// Name is the namespace label used in logs.
func (c *LRU) Name() string { return c.name }

// Get returns the cached value and marks it most recently used.
func (c *LRU) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Add stores a value, evicting the least recently used entry when full.
func (c *LRU) Add(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, value)
}

// GetOrCompute returns the cached value for key, or runs fn once and stores its
// result. hit is false only for the caller whose fn actually ran.
func (c *LRU) GetOrCompute(ctx context.Context, key string, fn ComputeFunc) (value string, hit bool, err error) {
	c.mu.Lock()
	if v, ok := c.lru.Get(key); ok {
		c.stats.Hits++
		c.mu.Unlock()
		return v.(string), true, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	computed := false
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// a previous flight may have filled the key between our miss and Do
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		computed = true
		out, err := fn(ctx)
		if err != nil {
			return "", err
		}
		c.Add(key, out)
		return out, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), !computed, nil
}

// Len is the number of stored entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns a snapshot of counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = c.lru.Len()
	return s
}

// Clear drops every entry.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
