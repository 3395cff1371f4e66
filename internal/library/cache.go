package library

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sparringlab/sparring/internal/debate"
)

// CacheDriver selects the cache backend.
type CacheDriver string

const (
	CacheDriverMemory CacheDriver = "memory"
	CacheDriverRedis  CacheDriver = "redis"
)

// Cache holds per-user library listings between reads. A miss is not an
// error; writes through the Store invalidate the owner's key.
type Cache interface {
	Get(ctx context.Context, userID string) ([]debate.Entry, bool)
	Set(ctx context.Context, userID string, entries []debate.Entry)
	Invalidate(ctx context.Context, userID string)
}

// CacheOption is a functional option for configuring a cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// WithRedisClient sets the Redis client for the Redis cache.
func WithRedisClient(client *redis.Client) CacheOption {
	return func(c *cacheConfig) {
		c.redisClient = client
	}
}

// WithTTL sets how long cached listings stay valid.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.ttl = ttl
	}
}

// NewCache creates a Cache for the given driver. Redis requires
// WithRedisClient.
func NewCache(driver CacheDriver, opts ...CacheOption) (Cache, error) {
	config := &cacheConfig{ttl: 5 * time.Minute}
	for _, opt := range opts {
		opt(config)
	}

	switch driver {
	case CacheDriverMemory:
		return &memoryCache{
			entries: make(map[string]memoryCacheEntry),
			ttl:     config.ttl,
		}, nil
	case CacheDriverRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return &redisCache{client: config.redisClient, ttl: config.ttl}, nil
	default:
		return nil, ErrInvalidCacheDriver
	}
}

type memoryCacheEntry struct {
	entries   []debate.Entry
	expiresAt time.Time
}

// memoryCache implements Cache with an in-process map.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
}

func (c *memoryCache) Get(_ context.Context, userID string) ([]debate.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[userID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.entries, true
}

func (c *memoryCache) Set(_ context.Context, userID string, entries []debate.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryCacheEntry{
		entries:   entries,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *memoryCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// redisCache implements Cache on Redis with JSON values and key TTLs.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func libraryKey(userID string) string {
	return "library:" + userID
}

func (c *redisCache) Get(ctx context.Context, userID string) ([]debate.Entry, bool) {
	val, err := c.client.Get(ctx, libraryKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var entries []debate.Entry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *redisCache) Set(ctx context.Context, userID string, entries []debate.Entry) {
	val, err := json.Marshal(entries)
	if err != nil {
		return
	}
	c.client.Set(ctx, libraryKey(userID), val, c.ttl)
}

func (c *redisCache) Invalidate(ctx context.Context, userID string) {
	c.client.Del(ctx, libraryKey(userID))
}
