package ratestore

import (
	"sync"
	"time"

	"github.com/rgehrsitz/hiquote/internal/rates"
)

// CacheConfig holds configuration for cache behavior
type CacheConfig struct {
	// TTL is the time-to-live for cached entries.
	// Set to 0 for no expiration (manual invalidation only).
	TTL time.Duration
}

// DefaultCacheConfig returns the cache settings used by the server
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: 5 * time.Minute}
}

// Cache holds initialized configurations per product. Thread-safe.
// Cached configurations are shared between callers and must be treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	config  CacheConfig
	now     func() time.Time
}

type cacheEntry struct {
	cfg      *rates.Config
	cachedAt time.Time
}

// NewCache creates an empty cache
func NewCache(config CacheConfig) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		config:  config,
		now:     time.Now,
	}
}

// Get returns the cached configuration, or false on a miss or an expired entry
func (c *Cache) Get(productID string) (*rates.Config, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[productID]
	if !ok || c.expired(entry) {
		return nil, false
	}
	return entry.cfg, true
}

// Set stores a configuration
func (c *Cache) Set(productID string, cfg *rates.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[productID] = cacheEntry{cfg: cfg, cachedAt: c.now()}
}

// Invalidate drops one product, forcing a reload on next Get
func (c *Cache) Invalidate(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, productID)
}

// InvalidateAll clears the cache
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// IsValid returns true if the product has a live entry
func (c *Cache) IsValid(productID string) bool {
	_, ok := c.Get(productID)
	return ok
}

// Len counts entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) expired(entry cacheEntry) bool {
	if c.config.TTL <= 0 {
		return false
	}
	return c.now().Sub(entry.cachedAt) > c.config.TTL
}
