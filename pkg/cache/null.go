package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// NullCache backs --no-cache runs: every lookup misses and writes are
// dropped, so each host and registry response is fetched fresh. It counts
// the lookups it answered so a run can report how many requests went
// uncached.
type NullCache struct {
	lookups atomic.Int64
	dropped atomic.Int64
}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache {
	return &NullCache{}
}

// Get reports a miss for key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.lookups.Add(1)
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.dropped.Add(1)
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

func (c *NullCache) Close() error { return nil }

// Lookups is the number of Get calls answered with a miss.
func (c *NullCache) Lookups() int64 { return c.lookups.Load() }

// Dropped is the number of responses that were not stored.
func (c *NullCache) Dropped() int64 { return c.dropped.Load() }

var _ Cache = (*NullCache)(nil)
