// Package handlecache bounds how many region files a long-running
// process keeps open at once. It is composed on top of a
// provider.Provider rather than replacing it — the provider itself
// stays a pure, uncached factory.
package handlecache

import (
	"sync"
	"time"

	"github.com/nickheyer/anvilstore/internal/anvil"
	"github.com/nickheyer/anvilstore/internal/provider"
)

// Key identifies a cached region handle by its coordinates.
type Key struct {
	RegionX, RegionZ int32
}

type item struct {
	region    *anvil.Region
	expiresAt time.Time
}

// Cache is a TTL cache of open region handles keyed by coordinates.
// Unlike a plain value cache, eviction and expiry both close the
// underlying region so its file descriptor is released.
type Cache struct {
	mu       sync.Mutex
	provider provider.Provider
	ttl      time.Duration
	items    map[Key]*item
}

// New wraps p with a TTL cache: handles unused for longer than ttl are
// closed on the next CleanExpired pass, or on the next Get for the same
// coordinates.
func New(p provider.Provider, ttl time.Duration) *Cache {
	return &Cache{
		provider: p,
		ttl:      ttl,
		items:    make(map[Key]*item),
	}
}

// Get returns a cached handle if one is live, otherwise opens a fresh
// one via the underlying provider and caches it.
func (c *Cache) Get(regionX, regionZ int32) (*anvil.Region, error) {
	key := Key{RegionX: regionX, RegionZ: regionZ}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if it, ok := c.items[key]; ok {
		if now.Before(it.expiresAt) {
			it.expiresAt = now.Add(c.ttl)
			return it.region, nil
		}
		it.region.Close()
		delete(c.items, key)
	}

	r, err := c.provider.GetRegion(regionX, regionZ)
	if err != nil {
		return nil, err
	}
	c.items[key] = &item{region: r, expiresAt: now.Add(c.ttl)}
	return r, nil
}

// CleanExpired closes and evicts every handle past its TTL.
func (c *Cache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			it.region.Close()
			delete(c.items, key)
		}
	}
}

// CloseAll closes every cached handle, regardless of TTL.
func (c *Cache) CloseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for key, it := range c.items {
		if err := it.region.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.items, key)
	}
	return firstErr
}

// Len reports how many handles are currently cached, mainly for tests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
