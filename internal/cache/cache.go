// Package cache keeps fetched source pages so that several query variants
// pointing at the same URL cost a single request.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/hyperion/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PageKey derives the key a fetched page is stored under
func PageKey(rawURL string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return "hyperion-page-v1-" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg, or nil when caching is disabled.
// A configured directory adds a disk layer behind the memory cache.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cfg.Dir == "" {
		return NewMemoryCache(ttl, 10*time.Minute)
	}
	return NewLayeredCache(ttl, cfg.Dir, ttl)
}
