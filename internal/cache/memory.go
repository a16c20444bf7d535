package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process layer: serialized pages and documents keyed
// by the builders in this package.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a memory cache whose entries default to ttl. The
// expiry sweep runs at twice the TTL; reads past expiry are misses regardless
// of the sweep.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the bytes stored under key. The caller owns the returned slice;
// mutating it does not touch the cached entry.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	stored := val.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, true
}

// Set stores a copy of value under key with the given TTL (0 = default TTL).
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Set(key, stored, ttl)
	return nil
}

// Delete removes key from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	return nil
}
