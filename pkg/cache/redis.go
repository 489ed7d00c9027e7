package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings Redis.
func NewRedisClient(opts ...RedisOption) (*redis.Client, error) {
	cfg := defaultRedisConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore implements Store on Redis. Values are JSON encoded together with
// their logical expiry; the Redis key TTL is the logical TTL plus the stale
// retention so expired values stay readable through GetStale.
type RedisStore[V any] struct {
	client         *redis.Client
	prefix         string
	staleRetention time.Duration
	now            func() time.Time
}

// NewRedisStore builds a store over an existing client. Several stores with
// different prefixes can share one client.
func NewRedisStore[V any](client *redis.Client, opts ...RedisOption) *RedisStore[V] {
	cfg := defaultRedisConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &RedisStore[V]{
		client:         client,
		prefix:         cfg.Prefix,
		staleRetention: cfg.StaleRetention,
		now:            time.Now,
	}
}

func (c *RedisStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	entry, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok || entry.Expired(c.now()) {
		return zero, false, err
	}
	return entry.Value, true, nil
}

func (c *RedisStore[V]) GetStale(ctx context.Context, key string) (V, bool, error) {
	var zero V
	entry, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	return entry.Value, true, nil
}

func (c *RedisStore[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return c.Put(ctx, key, NewEntry(value, c.now(), ttl))
}

func (c *RedisStore[V]) Lookup(ctx context.Context, key string) (Entry[V], bool, error) {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry[V]{}, false, nil
		}
		return Entry[V]{}, false, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry[V]
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry[V]{}, false, fmt.Errorf("decode entry: %w", err)
	}
	return entry, true, nil
}

func (c *RedisStore[V]) Put(ctx context.Context, key string, entry Entry[V]) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	// Zero expiration means no key TTL in go-redis.
	var expiration time.Duration
	if c.staleRetention > 0 {
		expiration = time.Until(entry.ExpiresAt) + c.staleRetention
		if expiration <= 0 {
			return nil
		}
	}
	return c.client.Set(ctx, c.wrapKey(key), data, expiration).Err()
}

func (c *RedisStore[V]) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Unlink(ctx, c.wrapKeys(keys...)...).Err()
}

func (c *RedisStore[V]) DeleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.wrapKey(pattern), 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		return c.client.Unlink(ctx, batch...).Err()
	}
	return nil
}

func (c *RedisStore[V]) Clear(ctx context.Context) error {
	return c.DeleteMatching(ctx, "*")
}

func (c *RedisStore[V]) wrapKey(key string) string {
	return c.prefix + ":" + key
}

func (c *RedisStore[V]) wrapKeys(keys ...string) []string {
	wrapped := make([]string, len(keys))
	for i, key := range keys {
		wrapped[i] = c.wrapKey(key)
	}
	return wrapped
}
