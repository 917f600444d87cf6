// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"time"
)

// entry wraps a value with access time for LRU eviction and TTL expiry
type entry[V any] struct {
	value      V
	lastAccess int64 // Unix nano timestamp
}

// Cache is a small concurrent cache with optional TTL expiry and an
// optional size bound with least-recently-used eviction.
//
// Usage:
//
//	c := cache.New[string, media.Category](
//	    cache.WithMaxSize[string, media.Category](100000),
//	    cache.WithExpiry[string, media.Category](24*time.Hour),
//	)
//	defer c.Stop()
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]*entry[V]

	// Max size (0 = unlimited)
	maxSize int

	// TTL expiry (0 = no expiry)
	expiry time.Duration

	cleanupTimer *time.Timer
	cleanupStop  chan struct{}
	stopOnce     sync.Once
}

// Option configures a Cache
type Option[K comparable, V any] func(*Cache[K, V])

// WithMaxSize sets the maximum total number of entries in the cache.
// When capacity is reached, the least recently accessed entry is evicted.
func WithMaxSize[K comparable, V any](maxSize int) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.maxSize = maxSize
	}
}

// WithExpiry sets the TTL for cache entries. Entries not accessed for this
// long are not returned by Get and are removed by a background timer.
func WithExpiry[K comparable, V any](expiry time.Duration) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.expiry = expiry
	}
}

// New creates a new Cache with the given options.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		items:       make(map[K]*entry[V]),
		cleanupStop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.expiry > 0 {
		c.startCleanup()
	}
	return c
}

func (c *Cache[K, V]) startCleanup() {
	c.cleanupTimer = time.AfterFunc(c.expiry, func() {
		c.cleanup()
		select {
		case <-c.cleanupStop:
			return
		default:
			c.cleanupTimer.Reset(c.expiry)
		}
	})
}

// cleanup removes expired entries
func (c *Cache[K, V]) cleanup() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if c.expired(e, now) {
			delete(c.items, k)
		}
	}
}

func (c *Cache[K, V]) expired(e *entry[V], now int64) bool {
	return c.expiry > 0 && now-e.lastAccess > c.expiry.Nanoseconds()
}

// Stop stops the cleanup timer. Call this when the cache is no longer needed.
func (c *Cache[K, V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.cleanupStop)
		if c.cleanupTimer != nil {
			c.cleanupTimer.Stop()
		}
	})
}

// Get retrieves a value from the cache and refreshes its access time.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	now := time.Now().UnixNano()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || c.expired(e, now) {
		var zero V
		return zero, false
	}
	e.lastAccess = now
	return e.value, true
}

// Set adds or updates a value in the cache.
func (c *Cache[K, V]) Set(key K, value V) {
	now := time.Now().UnixNano()
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.items[key] = &entry[V]{value: value, lastAccess: now}
}

// evictOldestLocked removes the least recently accessed entry.
func (c *Cache[K, V]) evictOldestLocked() {
	var oldestKey K
	var oldestTime int64
	first := true
	for k, e := range c.items {
		if first || e.lastAccess < oldestTime {
			oldestKey = k
			oldestTime = e.lastAccess
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}

// Delete removes a key from the cache.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size returns the current number of entries, expired ones included until
// the next cleanup.
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
