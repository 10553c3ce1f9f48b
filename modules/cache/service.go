// Package cache provides an optional cache-aside layer backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService defines the caching operations used by consumers.
type CacheService interface {
	// Get unmarshals the value stored under key into dest.
	// It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key with the default TTL.
	Set(ctx context.Context, key string, value any) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Stats returns a snapshot of the hit and miss counters.
	Stats() StatsSnapshot

	Ping(ctx context.Context) error
	Close() error
}

// StatsSnapshot is a point-in-time copy of the cache counters.
type StatsSnapshot struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

type stats struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
	errors  atomic.Uint64
}

func (s *stats) snapshot() StatsSnapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return StatsSnapshot{
		Hits:    hits,
		Misses:  misses,
		Sets:    s.sets.Load(),
		Deletes: s.deletes.Load(),
		Errors:  s.errors.Load(),
		HitRate: hitRate,
	}
}

// RedisCache implements CacheService on a go-redis client.
// Every key is namespaced by prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  stats
}

var _ CacheService = (*RedisCache)(nil)

// NewRedisCache wraps client.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.misses.Add(1)
			return false, nil
		}
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.stats.hits.Add(1)
	return true, nil
}

// Set stores a value in the cache with the default TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	c.stats.sets.Add(1)
	return nil
}

// Delete removes keys from the cache.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}

	n, err := c.client.Del(ctx, full...).Result()
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}

	c.stats.deletes.Add(uint64(n))
	return nil
}

// Stats returns the current counters.
func (c *RedisCache) Stats() StatsSnapshot {
	return c.stats.snapshot()
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache is used when no Redis address is configured. Every Get misses.
type NoopCache struct {
	stats stats
}

var _ CacheService = (*NoopCache)(nil)

// NewNoopCache creates a cache that stores nothing.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get always reports a miss.
func (c *NoopCache) Get(context.Context, string, any) (bool, error) {
	c.stats.misses.Add(1)
	return false, nil
}

// Set discards the value.
func (c *NoopCache) Set(context.Context, string, any) error {
	return nil
}

// Delete has nothing to remove.
func (c *NoopCache) Delete(context.Context, ...string) error {
	return nil
}

// Stats returns the miss count.
func (c *NoopCache) Stats() StatsSnapshot {
	return c.stats.snapshot()
}

// Ping always succeeds.
func (c *NoopCache) Ping(context.Context) error {
	return nil
}

// Close releases nothing.
func (c *NoopCache) Close() error {
	return nil
}
