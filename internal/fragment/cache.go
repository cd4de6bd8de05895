package fragment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/navgest/internal/content"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	tree      *content.Tree
	fetchedAt time.Time
}

// Cache is a thread-safe in-memory fragment cache with TTL eviction.
// Concurrent misses for one path share a single upstream fetch; failures
// are not cached.
type Cache struct {
	src     Source
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time
	group   singleflight.Group
	stats   *FetchStats
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(src Source, ttl time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		src:     src,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		stats:   NewFetchStats(time.Hour),
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns a private copy of the fragment at path.
func (c *Cache) Fetch(ctx context.Context, path string) (*content.Tree, error) {
	if t := c.get(path); t != nil {
		c.stats.Hit()
		return t.Clone(), nil
	}

	// The shared fetch outlives any one caller; each caller only stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path, func() (any, error) {
		start := time.Now()
		tree, err := c.src.Fetch(fetchCtx, path)
		c.stats.Record(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		c.put(path, tree)
		return tree, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch fragment %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("fragment fetch shared", "path", path)
		}
		return res.Val.(*content.Tree).Clone(), nil
	}
}

func (c *Cache) get(path string) *content.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok || c.expired(e) {
		return nil
	}
	return e.tree
}

func (c *Cache) put(path string, tree *content.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{tree: tree, fetchedAt: c.now()}
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl
}

// Stats returns the hit count and upstream fetch latencies.
func (c *Cache) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// Invalidate drops the cached fragment at path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len returns the number of cached fragments.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired fragments.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, path)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}
