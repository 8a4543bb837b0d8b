// Package cache provides the process-local TTL cache for shaped catalog
// results. It is the only shared mutable state in the core; entries are
// immutable once written, so a write fully replaces rather than mutates.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is applied when a write does not specify a duration.
const DefaultTTL = 10 * time.Minute

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

// Cache is a thread-safe in-memory cache with per-entry TTL. Size is
// unbounded; stale entries are evicted lazily on read.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock for tests.
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	c.now = now
	return c
}

// Read returns the cached value for key, or absence. A read after the TTL
// has elapsed returns absent and evicts the stale entry. Absence is not an
// error.
func (c *Cache) Read(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

// Write stores data under key, replacing any prior entry. A non-positive
// ttl falls back to DefaultTTL.
func (c *Cache) Write(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, timestamp: c.now(), ttl: ttl}
}

// Len returns the current number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper runs a periodic sweep of expired entries until ctx is
// cancelled. Lazy read-side eviction makes this optional; the sweep only
// bounds memory between reads.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.timestamp) >= e.ttl {
			delete(c.entries, key)
		}
	}
}
