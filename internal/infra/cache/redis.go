package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domcart "example.com/gameshop/internal/domain/cart"
)

// RedisCartStorage keeps encoded carts in Redis. Every save refreshes the TTL
// so an active cart does not expire mid-session.
type RedisCartStorage struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCartStorage(client redis.UniversalClient, ttl time.Duration) *RedisCartStorage {
	return &RedisCartStorage{client: client, ttl: ttl}
}

func (r *RedisCartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domcart.ErrCartMissing
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisCartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
