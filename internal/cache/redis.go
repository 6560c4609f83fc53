package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/redis/go-redis/v9"
)

// RedisCache caches shipment statuses. Entries get a jittered TTL so a
// burst of writes does not expire at once.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context, shippingID string) (shipping.Status, error) {
	data, err := r.client.Get(ctx, cacheKey(shippingID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", shipping.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return shipping.Status(data), nil
}

func (r *RedisCache) Set(ctx context.Context, shippingID string, status shipping.Status) error {
	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, cacheKey(shippingID), string(status), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, shippingID string) error {
	if err := r.client.Del(ctx, cacheKey(shippingID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(shippingID string) string {
	return fmt.Sprintf("shipping-status:%s", shippingID)
}
