package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a [RedisCache].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key and scopes [RedisCache.Clear].
	Prefix string
}

// RedisCache stores entries in Redis. Expiry is delegated to Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and pings it once.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", ErrUnavailable, opts.Addr, err)
	}
	return &RedisCache{client: client, prefix: opts.Prefix}, nil
}

// Get retrieves a value. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A ttl <= 0 keeps the entry until deleted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Clear deletes every key under the cache prefix and returns the count.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var n int
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return n, err
		}
		n++
	}
	return n, iter.Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
