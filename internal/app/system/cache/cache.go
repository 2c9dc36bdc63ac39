// Package cache is a small JSON-value cache on Redis, used to take the
// hotel and room list queries off the hot path.
//
// A nil *Cache is valid and always misses, so callers don't branch on
// whether caching is configured.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickstay/quickstay-api/internal/app/system/metrics"
)

type Cache struct {
	c   *redis.Client
	ttl time.Duration
}

// New connects a cache client. addr empty returns nil (caching disabled).
func New(addr, pass string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

// Get loads key into dst. Returns false on miss (or nil cache).
func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if r == nil {
		return false, nil
	}
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	metrics.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

// Set stores v under key for the configured TTL.
func (r *Cache) Set(ctx context.Context, key string, v any) error {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	metrics.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, r.ttl).Err()
}

// Del drops key, typically after a write invalidates a cached list.
func (r *Cache) Del(ctx context.Context, keys ...string) error {
	if r == nil || len(keys) == 0 {
		return nil
	}
	metrics.ObserveCache("redis", "del")
	return r.c.Del(ctx, keys...).Err()
}

// Close releases the underlying client.
func (r *Cache) Close() error {
	if r == nil {
		return nil
	}
	return r.c.Close()
}
