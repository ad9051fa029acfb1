package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces slot keys in a shared Redis database.
const DefaultRedisPrefix = "pokedex-browser:"

// RedisStore persists values in Redis.
type RedisStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisStore creates a new store with Redis backend.
func NewRedisStore(redisClient *redis.Client, prefix string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + key
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.WithLabelValues("redis").Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("redis", "get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return data, nil
}

// Set implements Store. Expiry is handled by the Entry envelope, so keys are
// stored without a Redis TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.redis.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheSize.WithLabelValues("redis").Set(float64(len(value)))
	return nil
}

// Clear implements Store.
func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.redis.Del(ctx, r.key(key)).Err(); err != nil {
		CacheErrors.WithLabelValues("redis", "clear").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
