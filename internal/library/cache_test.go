package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sparringlab/sparring/internal/debate"
)

func TestNewCacheMemory(t *testing.T) {
	c, err := NewCache(CacheDriverMemory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*memoryCache); !ok {
		t.Errorf("expected memoryCache, got %T", c)
	}
}

func TestNewCacheRedisRequiresClient(t *testing.T) {
	if _, err := NewCache(CacheDriverRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewCacheUnknownDriver(t *testing.T) {
	if _, err := NewCache("memcached"); !errors.Is(err, ErrInvalidCacheDriver) {
		t.Errorf("expected ErrInvalidCacheDriver, got %v", err)
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c, err := NewCache(CacheDriverMemory, WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, ok := c.Get(ctx, "u-1"); ok {
		t.Error("expected miss on empty cache")
	}

	entries := []debate.Entry{{ID: "e-1", Settings: debate.Settings{Topic: "t"}}}
	c.Set(ctx, "u-1", entries)

	got, ok := c.Get(ctx, "u-1")
	if !ok || len(got) != 1 || got[0].ID != "e-1" {
		t.Errorf("expected hit with the stored entries, got %v, %v", got, ok)
	}

	if _, ok := c.Get(ctx, "u-2"); ok {
		t.Error("keys must be per-user")
	}

	c.Invalidate(ctx, "u-1")
	if _, ok := c.Get(ctx, "u-1"); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, err := NewCache(CacheDriverMemory, WithTTL(-time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	c.Set(ctx, "u-1", []debate.Entry{{ID: "e-1"}})
	if _, ok := c.Get(ctx, "u-1"); ok {
		t.Error("expired entries must not be served")
	}
}
