// Package cache is the shared memo of fetched records. Services own one
// instance, read through it and invalidate the affected keys after every
// write.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Observer is told about every lookup
type Observer interface {
	CacheHit(key string)
	CacheMiss(key string)
}

type entry[T any] struct {
	value   T
	expires time.Time
}

// Cache is a mutex guarded map with optional expiry. The zero TTL keeps
// entries until they are invalidated. Every key carries a generation that
// invalidation bumps, so a load started before a write cannot store its
// result after it.
type Cache[T any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[T]
	gens     map[string]uint64
	ttl      time.Duration
	now      func() time.Time
	observer Observer
}

// New creates a cache. obs may be nil.
func New[T any](ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{
		entries:  make(map[string]entry[T]),
		gens:     make(map[string]uint64),
		ttl:      ttl,
		now:      time.Now,
		observer: obs,
	}
}

// Get returns the cached value for key
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		ok = false
	}

	if c.observer != nil {
		if ok {
			c.observer.CacheHit(key)
		} else {
			c.observer.CacheMiss(key)
		}
	}

	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key
func (c *Cache[T]) Set(key string, value T) {
	e := entry[T]{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Generation returns the current generation of key. Pass it to
// SetIfGeneration to store a value loaded after this call.
func (c *Cache[T]) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gens[key]
	if !ok {
		// registered so InvalidatePrefix sees keys with a load in flight
		c.gens[key] = 0
	}
	return g
}

// SetIfGeneration stores value under key unless key was invalidated since
// gen was read. It reports whether the value was stored.
func (c *Cache[T]) SetIfGeneration(key string, value T, gen uint64) bool {
	e := entry[T]{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = e
	return true
}

// Invalidate drops the given keys
func (c *Cache[T]) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
	c.mu.Unlock()
}

// InvalidatePrefix drops every key starting with prefix
func (c *Cache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	for k := range c.gens {
		if strings.HasPrefix(k, prefix) {
			c.gens[k]++
		}
	}
	c.mu.Unlock()
}

// Clear drops everything
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	for k := range c.gens {
		c.gens[k]++
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the typed value under key, calling load and storing its
// result on a miss. Errors are not cached. A stored value of another type
// counts as a miss. A result whose key was invalidated while loading is
// returned but not stored.
func Fetch[V any](ctx context.Context, c *Cache[any], key string, load func(context.Context) (V, error)) (V, error) {
	gen := c.Generation(key)
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(V); ok {
			return typed, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.SetIfGeneration(key, v, gen)
	return v, nil
}
