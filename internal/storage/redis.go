package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string        // Prepended to every slot key
	Timeout   time.Duration // Per-operation timeout
}

// DefaultRedisConfig returns sensible defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "arcade:",
		Timeout:   3 * time.Second,
	}
}

// RedisKV stores slots as plain Redis string keys.
type RedisKV struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(cfg RedisConfig) (*RedisKV, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRedisConfig().Timeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisWithClient(client, cfg.KeyPrefix, cfg.Timeout), nil
}

// NewRedisWithClient wraps an existing client (useful for testing).
func NewRedisWithClient(client *redis.Client, prefix string, timeout time.Duration) *RedisKV {
	if timeout <= 0 {
		timeout = DefaultRedisConfig().Timeout
	}
	return &RedisKV{client: client, prefix: prefix, timeout: timeout}
}

// Get returns the value stored under key.
func (r *RedisKV) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return b, nil
}

// Set replaces the value stored under key. Slots never expire.
func (r *RedisKV) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisKV) Close() error {
	return r.client.Close()
}

var _ KV = (*RedisKV)(nil)
