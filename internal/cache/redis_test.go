package cache

import (
	"context"
	"testing"

	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a RedisCache against it.
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKey("shipping-1"), "in progress"))

	status, err := cache.Get(ctx, "shipping-1")
	require.NoError(t, err)
	assert.Equal(t, shipping.StatusInProgress, status)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, shipping.ErrCacheMiss)
}

func TestSet_WritesWithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shipping-1", shipping.StatusCreated))

	got, err := mr.Get(cacheKey("shipping-1"))
	require.NoError(t, err)
	assert.Equal(t, "created", got)
	assert.Greater(t, mr.TTL(cacheKey("shipping-1")).Seconds(), 0.0)
}

func TestDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "shipping-1", shipping.StatusFailed))
	require.NoError(t, cache.Delete(ctx, "shipping-1"))

	assert.False(t, mr.Exists(cacheKey("shipping-1")))

	// Deleting an absent key is not an error.
	require.NoError(t, cache.Delete(ctx, "shipping-1"))
}

func TestGet_ServerGone(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "shipping-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, shipping.ErrCacheMiss)
}
