// Package cache provides a small in-process TTL cache used by the store to
// avoid repeated point lookups.
package cache

import (
	"sync"
	"time"
)

// Config controls cache behavior.
type Config struct {
	// DefaultTTL is how long an entry stays valid after Set.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration
	// MaxItems bounds the cache; Set on a full cache evicts the oldest entry.
	MaxItems int
	// OnEviction, when non-nil, is called for each evicted or expired entry.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a thread-safe string-keyed TTL cache.
type Cache struct {
	mu     sync.Mutex
	items  map[string]item
	config Config
	done   chan struct{}
}

// New creates a cache and starts its background sweeper.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}
	c := &Cache{
		items:  make(map[string]item),
		config: config,
		done:   make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		delete(c.items, key)
		if c.config.OnEviction != nil {
			c.config.OnEviction(key, it.value)
		}
		return nil, false
	}
	return it.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= c.config.MaxItems {
		c.evictOldestLocked()
	}
	c.items[key] = item{value: value, expiresAt: time.Now().Add(c.config.DefaultTTL)}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Purge removes every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	close(c.done)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	for key, it := range c.items {
		if oldestKey == "" || it.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = it.expiresAt
		}
	}
	if oldestKey != "" {
		it := c.items[oldestKey]
		delete(c.items, oldestKey)
		if c.config.OnEviction != nil {
			c.config.OnEviction(oldestKey, it.value)
		}
	}
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, key)
					if c.config.OnEviction != nil {
						c.config.OnEviction(key, it.value)
					}
				}
			}
			c.mu.Unlock()
		}
	}
}
