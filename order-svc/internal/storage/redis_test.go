package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLoginLimiter_LocksAfterMaxAttempts(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewLoginLimiter(client, 3, 2*time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "juan@example.com"))
		allowed, _, err := limiter.Check(ctx, "juan@example.com")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i+1)
	}

	require.NoError(t, limiter.RecordFailure(ctx, "juan@example.com"))
	allowed, retryAfter, err := limiter.Check(ctx, "juan@example.com")

	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, 2*time.Minute)

	other, _, err := limiter.Check(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestLoginLimiter_LockExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLoginLimiter(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "juan@example.com"))
	allowed, _, err := limiter.Check(ctx, "juan@example.com")
	require.NoError(t, err)
	require.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, _, err = limiter.Check(ctx, "juan@example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_ResetClearsState(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLoginLimiter(client, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "juan@example.com"))
	require.NoError(t, limiter.RecordFailure(ctx, "juan@example.com"))
	require.NoError(t, limiter.Reset(ctx, "juan@example.com"))

	assert.False(t, mr.Exists("login:lock:juan@example.com"))
	assert.False(t, mr.Exists("login:attempts:juan@example.com"))
}

func TestLoginLimiter_ReportsRedisErrors(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewLoginLimiter(client, 3, time.Minute)
	mr.Close()

	_, _, err := limiter.Check(context.Background(), "juan@example.com")

	assert.Error(t, err)
}

func TestRedisCache_ReviewMarker(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewRedisCache(client, time.Hour)
	ctx := context.Background()
	key := cache.ReviewMarkerKey(5, 7)

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.SetMarker(ctx, key))

	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "review:5:7", key)
	assert.Equal(t, time.Hour, mr.TTL(key))
}
