// Package cache provides a keyed read-through cache whose concurrent loads are coalesced.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache keeps loaded values per key for a TTL.
// Concurrent Get calls for the same missing key share a single load.
type Cache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[V]
	gens    map[string]uint64
	epoch   uint64
}

// New returns a Cache. A zero or negative ttl disables storing, leaving only the coalescing of loads.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached value for key or loads it.
func (c *Cache[V]) Get(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	gen := c.generation(key)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// detached from the first caller so its cancellation does not fail the other waiters
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		c.store(key, v, gen)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Invalidate drops the given keys. Loads already in flight for them will not be stored.
func (c *Cache[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
		c.group.Forget(key)
	}
}

// Reset drops every key.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		c.group.Forget(key)
	}
	c.entries = make(map[string]entry[V])
	c.gens = make(map[string]uint64)
	c.epoch++
}

// Len returns the number of stored keys, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

type generation struct {
	epoch uint64
	key   uint64
}

func (c *Cache[V]) generation(key string) generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return generation{epoch: c.epoch, key: c.gens[key]}
}

func (c *Cache[V]) store(key string, v V, gen generation) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != gen.epoch || c.gens[key] != gen.key {
		return // invalidated while loading
	}
	c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
}
