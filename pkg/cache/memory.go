package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds a MemoryCache created with size <= 0.
const DefaultMemoryEntries = 1024

// MemoryCache is a bounded in-process LRU cache. Entries past their TTL are
// dropped on read.
type MemoryCache struct {
	lru *lru.Cache[string, cacheEntry]
}

// NewMemoryCache creates an LRU cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	l, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: l}, nil
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a copy of data in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: append([]byte(nil), data...)}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len reports the number of entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// Close purges all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
