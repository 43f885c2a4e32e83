// Package rediscache implements the query cache on Redis. Namespace
// invalidation is done with generation counters instead of key scans: every
// namespace has a generation number, keys embed it, and bumping the counter
// orphans all existing entries at once. Orphaned entries expire through their
// TTL without ever being read again.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"logistics/internal/core/ports"
)

// RedisCache implements ports.Cache using a Redis client.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr and verifies the connection with a
// ping. Cached entries live for ttl, which bounds how long an orphaned
// generation lingers.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// GetJSON unmarshals the cached value for key within the namespace into dest.
func (c *RedisCache) GetJSON(ctx context.Context, namespace, key string, dest any) error {
	fullKey, err := c.entryKey(ctx, namespace, key)
	if err != nil {
		return err
	}

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(payload, dest)
}

// SetJSON marshals value and stores it under key within the namespace.
func (c *RedisCache) SetJSON(ctx context.Context, namespace, key string, value any) error {
	fullKey, err := c.entryKey(ctx, namespace, key)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, fullKey, payload, c.ttl).Err()
}

// Invalidate bumps the namespace generation, orphaning every entry stored
// under the previous one.
func (c *RedisCache) Invalidate(ctx context.Context, namespace string) error {
	return c.client.Incr(ctx, generationKey(namespace)).Err()
}

// Close releases the underlying Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) entryKey(ctx context.Context, namespace, key string) (string, error) {
	generation, err := c.client.Get(ctx, generationKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		generation = 0
	} else if err != nil {
		return "", err
	}

	return fmt.Sprintf("cache:%s:%d:%s", namespace, generation, key), nil
}

func generationKey(namespace string) string {
	return "cache-generation:" + namespace
}
