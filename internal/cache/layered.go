package cache

import "time"

// LayeredCache checks memory first, then disk, promoting disk hits back into
// memory. A nil disk layer degrades to memory-only.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a layered cache. diskDir == "" disables the disk layer.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	c := &LayeredCache{
		memory: NewMemoryCache(memoryTTL),
	}
	if diskDir != "" {
		c.disk = NewDiskCache(diskDir, diskTTL)
	}
	return c
}

// Get retrieves a value, checking memory before disk.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if c.disk != nil {
		if val, found := c.disk.Get(key); found {
			_ = c.memory.Set(key, val, 0) // promote with default TTL
			return val, true
		}
	}

	return nil, false
}

// Set stores a value in both layers.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if c.disk != nil {
		return c.disk.Set(key, value, ttl)
	}
	return nil
}

// Delete removes a value from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	if c.disk != nil {
		_ = c.disk.Delete(key)
	}
	return nil
}

// Clear removes all values from both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}
