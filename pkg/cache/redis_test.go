//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("CODEMETA_REDIS_ADDR")
	if addr == "" {
		t.Skip("CODEMETA_REDIS_ADDR not set, skipping integration test")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "codemeta-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry present after Delete")
	}

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v, want 2", n, err)
	}
}
