package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tipline/tipline/internal/pkg/config"
)

// ErrCacheMiss is returned by KV.Get when the key does not exist.
var ErrCacheMiss = fmt.Errorf("kv: cache miss")

// KV is the key-value store used for the scored-result cache and for the
// scheduler leader lease.
type KV struct {
	client *redis.Client
}

func NewKV(cfg *config.RedisConfig) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &KV{client: client}, nil
}

// Client exposes the underlying connection for the queue package.
func (k *KV) Client() *redis.Client {
	return k.client
}

func (k *KV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if err := k.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (k *KV) Get(ctx context.Context, key string, dest any) error {
	data, err := k.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// DeleteByPattern SCAN-deletes all keys matching the pattern (COUNT=100).
// Used to invalidate scored results when new predictions land.
func (k *KV) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	var deleted int
	var cursor uint64
	for {
		keys, next, err := k.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := k.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// AcquireLease takes the distributed leader lease if free. Returns true when
// this node holds the lease afterwards.
func (k *KV) AcquireLease(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	ok, err := k.client.SetNX(ctx, key, holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease: %w", err)
	}
	if ok {
		return true, nil
	}
	// Already-held lease still counts if we are the holder (renew).
	current, err := k.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read lease: %w", err)
	}
	if current == holder {
		if err := k.client.Expire(ctx, key, ttl).Err(); err != nil {
			return false, fmt.Errorf("failed to renew lease: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func (k *KV) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

func (k *KV) Close() error {
	return k.client.Close()
}
