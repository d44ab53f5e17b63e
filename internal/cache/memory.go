// Package cache holds a small in-process TTL cache used to memoise the
// ledger-derived city rankings between submissions.
package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("cache entry not found")

type entry struct {
	expiresAt time.Time
	v         any
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Memory is a concurrency-safe map of values with a per-entry expiry.
//
// Every key has a generation that Delete advances. A value computed by
// GetOrSet is only stored if the generation it started under is still
// current, so a load racing with an invalidation never resurrects the
// value the invalidation removed.
type Memory struct {
	m          sync.Map
	mu         sync.Mutex
	gens       map[string]uint64
	flights    singleflight.Group
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemory returns a cache whose expired entries are swept every
// sweepEvery until ctx is cancelled. A zero sweepEvery disables sweeping;
// expired entries are still never returned by Get.
func NewMemory(ctx context.Context, defaultTTL, sweepEvery time.Duration) *Memory {
	c := &Memory{gens: make(map[string]uint64), defaultTTL: defaultTTL, now: time.Now}
	if sweepEvery > 0 {
		go c.expirer(ctx, sweepEvery)
	}
	return c
}

// Set stores v under k for the default TTL, or for ttl[0] when given.
func (c *Memory) Set(k string, v any, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(k, v, ttl...)
}

func (c *Memory) store(k string, v any, ttl ...time.Duration) {
	d := c.defaultTTL
	if len(ttl) > 0 {
		d = ttl[0]
	}
	c.m.Store(k, &entry{expiresAt: c.now().Add(d), v: v})
}

func (c *Memory) generation(k string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[k]
}

// storeIfGeneration stores v only when k has not been deleted since gen was
// read. It reports whether v was stored.
func (c *Memory) storeIfGeneration(k string, gen uint64, v any, ttl ...time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[k] != gen {
		return false
	}
	c.store(k, v, ttl...)
	return true
}

// Get returns the live value for k or ErrNotFound.
func (c *Memory) Get(k string) (any, error) {
	v, found := c.m.Load(k)
	if !found {
		return nil, ErrNotFound
	}
	e := v.(*entry)
	if e.isExpired(c.now()) {
		c.m.CompareAndDelete(k, v)
		return nil, ErrNotFound
	}
	return e.v, nil
}

// Delete drops k and advances its generation, so loads already in flight
// for k will not store their result. Deleting a missing key still advances
// the generation.
func (c *Memory) Delete(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[k]++
	c.m.Delete(k)
}

// GetOrSet returns the cached value for key, or computes it with valueFunc,
// stores it and returns it. Concurrent misses for the same key and
// generation share one valueFunc call. The result is not stored when key
// was deleted while valueFunc ran, and errors are never cached.
func (c *Memory) GetOrSet(ctx context.Context, key string, valueFunc func(ctx context.Context) (any, error), ttl ...time.Duration) (any, error) {
	if v, err := c.Get(key); err == nil {
		return v, nil
	}

	gen := c.generation(key)
	v, err, _ := c.flights.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := valueFunc(ctx)
		if err != nil {
			return nil, err
		}
		c.storeIfGeneration(key, gen, v, ttl...)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Len counts live entries.
func (c *Memory) Len() int {
	n := 0
	now := c.now()
	c.m.Range(func(_, v any) bool {
		if !v.(*entry).isExpired(now) {
			n++
		}
		return true
	})
	return n
}

func (c *Memory) sweep() {
	now := c.now()
	c.m.Range(func(k, v any) bool {
		if v.(*entry).isExpired(now) {
			c.m.CompareAndDelete(k, v)
		}
		return true
	})
}

func (c *Memory) expirer(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
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
