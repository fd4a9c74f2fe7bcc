package cache

import (
	"errors"
	"time"
)

// LayeredCache serves pages from memory and falls back to disk, so cached
// pages survive between CLI invocations
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache pairs a memory cache with a disk cache under diskDir
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory, then disk; a disk hit is promoted into memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if page, ok := c.memory.Get(key); ok {
		return page, true
	}
	page, ok := c.disk.Get(key)
	if ok {
		_ = c.memory.Set(key, page, 0)
	}
	return page, ok
}

// Set writes through to both layers. A disk failure still leaves the page
// in memory for the rest of the run.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, value, ttl)
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}

// Prune drops expired pages from the disk layer
func (c *LayeredCache) Prune() (int, error) {
	return c.disk.Prune()
}
