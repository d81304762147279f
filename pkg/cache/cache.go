// Package cache remembers the most recent keys, CertStream often sends the
// same certificate twice (precertificate then certificate).
package cache

import "sync"

// Cache is a bounded FIFO set of keys, safe for concurrent use
type Cache struct {
	mu    sync.Mutex
	slab  map[string]bool
	list  []string
	limit int
}

// New returns a cache holding up to limit keys
func New(limit int) *Cache {
	if limit < 1 {
		limit = 1
	}
	return &Cache{slab: make(map[string]bool), limit: limit}
}

// InCache tells whether key is stored
func (c *Cache) InCache(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slab[key]
}

// Store adds key, evicting the oldest one when full. It returns false if
// the key was already there.
func (c *Cache) Store(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slab[key] {
		return false
	}
	c.slab[key] = true
	c.list = append(c.list, key)
	if len(c.list) > c.limit {
		delete(c.slab, c.list[0])
		c.list = c.list[1:]
	}
	return true
}

// Len returns the number of stored keys
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list)
}

// Reset empties the cache
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slab = make(map[string]bool)
	c.list = c.list[:0]
}
