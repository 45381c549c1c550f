package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks cache performance.
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// TTLCache is a generic in-memory cache used on hot list endpoints
// (destination listings, event calendar months).
type TTLCache[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	name    string
	metrics Metrics
	logger  *zap.Logger
}

type entry[T any] struct {
	value      T
	expiration int64
}

// New creates a cache with the given TTL and name.
func New[T any](ttl time.Duration, name string, logger *zap.Logger) *TTLCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &TTLCache[T]{
		items:  make(map[string]entry[T]),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
	go c.cleanup()
	return c
}

// Set stores a value under the given key.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
	c.metrics.Sets++

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl))
}

// Get retrieves a value if present and not expired.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found || time.Now().UnixNano() > item.expiration {
		c.metrics.Misses++
		var zero T
		return zero, false
	}

	c.metrics.Hits++
	return item.value, true
}

// Delete removes a key.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear drops every entry, used after mutations that invalidate listings.
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[T])
	c.logger.Debug("Cache cleared", zap.String("cache", c.name))
}

// GetMetrics returns a snapshot of the cache counters.
func (c *TTLCache[T]) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

func (c *TTLCache[T]) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for key, item := range c.items {
			if now > item.expiration {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
