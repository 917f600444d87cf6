// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed index.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`

	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		PoolSize:  10,
		KeyPrefix: "zapmedia:category:",
	}
}

// RedisIndex shares category knowledge between processes through Redis.
type RedisIndex struct {
	client *redis.Client
	config RedisConfig
}

// NewRedisIndex connects to Redis and verifies the connection.
func NewRedisIndex(ctx context.Context, cfg RedisConfig) (*RedisIndex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisIndexWithClient(client, cfg), nil
}

// NewRedisIndexWithClient creates an index on an existing client.
func NewRedisIndexWithClient(client *redis.Client, cfg RedisConfig) *RedisIndex {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultRedisConfig().KeyPrefix
	}
	return &RedisIndex{client: client, config: cfg}
}

func (r *RedisIndex) key(id string) string {
	return r.config.KeyPrefix + id
}

func (r *RedisIndex) Lookup(ctx context.Context, id string) (media.Category, bool, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup category: %w", err)
	}
	c := media.Category(val)
	if !c.Resolved() {
		return "", false, nil
	}
	return c, true, nil
}

func (r *RedisIndex) LookupMany(ctx context.Context, ids []string) (map[string]media.Category, error) {
	out := make(map[string]media.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup categories: %w", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if c := media.Category(s); c.Resolved() {
			out[ids[i]] = c
		}
	}
	return out, nil
}

func (r *RedisIndex) Record(ctx context.Context, id string, c media.Category) error {
	if id == "" || !c.Resolved() {
		return nil
	}
	if err := r.client.Set(ctx, r.key(id), string(c), r.config.TTL).Err(); err != nil {
		return fmt.Errorf("record category: %w", err)
	}
	return nil
}

func (r *RedisIndex) Forget(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("forget categories: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisIndex) Close() error {
	return r.client.Close()
}
