// Package cache keeps the most recent pipeline result per region.
package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/imoveis-cli/internal/feed"
)

// DefaultTTL is how long a region result is served before it is reloaded.
const DefaultTTL = 60 * time.Minute

// Loader produces a fresh result for a region.
type Loader interface {
	Load(ctx context.Context, region string) (*feed.Result, error)
}

// Cache is a concurrent-safe region-keyed result cache with TTL expiration.
// Failed loads are never stored.
type Cache struct {
	loader  Loader
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

type entry struct {
	result    *feed.Result
	fetchedAt time.Time
}

// Stats contains cache statistics.
type Stats struct {
	Regions []string `json:"regions"`
	Hits    int64    `json:"hits"`
	Misses  int64    `json:"misses"`
}

// New creates a Cache backed by loader. A non-positive ttl selects
// DefaultTTL.
func New(loader Loader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		loader:  loader,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// GetOrFetch returns the cached result for region when it was fetched less
// than the TTL before now; otherwise it loads, stores and returns a fresh
// one. The boolean reports a cache hit. Concurrent misses for the same
// region share a single load.
func (c *Cache) GetOrFetch(ctx context.Context, region string, now time.Time) (*feed.Result, bool, error) {
	key := feed.NormalizeRegion(region)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Sub(e.fetchedAt) < c.ttl {
		c.hits.Add(1)
		return e.result, true, nil
	}
	c.misses.Add(1)

	// The shared load outlives any single caller; a caller that gives up
	// only stops waiting for it.
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.loader.Load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{result: res, fetchedAt: now}
		c.mu.Unlock()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		zap.L().Debug("cache: loaded region",
			zap.String("region", key),
			zap.Bool("shared", r.Shared),
		)
		return r.Val.(*feed.Result), false, nil
	}
}

// Invalidate drops the entry for region so the next GetOrFetch reloads it.
func (c *Cache) Invalidate(region string) {
	key := feed.NormalizeRegion(region)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns the cached regions, sorted, and hit counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	regions := make([]string, 0, len(c.entries))
	for r := range c.entries {
		regions = append(regions, r)
	}
	c.mu.RUnlock()
	sort.Strings(regions)

	return Stats{
		Regions: regions,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
