package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketlink/marketlink/internal/config"
)

const (
	redisPingTimeout = 5 * time.Second
	redisScanCount   = 100
)

type redisClient struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the redis server of cfg and pings it.
func NewRedis(cfg config.Cache) (Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("cache: redis ping %s failed: %w", addr, err)
	}

	return &redisClient{client: rdb, prefix: cfg.Prefix}, nil
}

func (c *redisClient) key(k string) string {
	return c.prefix + k
}

func (c *redisClient) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	return b, err //nolint:wrapcheck
}

func (c *redisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	return c.client.Set(ctx, c.key(key), value, ttl).Err() //nolint:wrapcheck
}

func (c *redisClient) Take(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.GetDel(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	return b, err //nolint:wrapcheck
}

func (c *redisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err() //nolint:wrapcheck
}

// Reset deletes the keys with this client's prefix, or the whole database without prefix.
func (c *redisClient) Reset(ctx context.Context) error {
	if c.prefix == "" {
		return c.client.FlushDB(ctx).Err() //nolint:wrapcheck
	}

	iter := c.client.Scan(ctx, 0, c.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return iter.Err() //nolint:wrapcheck
}

func (c *redisClient) Close() error {
	return c.client.Close() //nolint:wrapcheck
}
