package storage

import (
	"context"
	"testing"
	"time"

	"restobar/events"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := NewStore(rdb)
	store.now = func() time.Time { return time.Date(2025, 12, 24, 10, 0, 0, 0, time.UTC) }
	return store, mr
}

func TestStore_MarkProcessed(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "evt-1")
	require.NoError(t, err)
	second, err := store.MarkProcessed(ctx, "evt-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, processedTTL, mr.TTL("notify:processed:evt-1"))
}

func TestStore_RecordActivity(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordActivity(ctx, events.Event{Type: events.TypeOrderCreated}))
	require.NoError(t, store.RecordActivity(ctx, events.Event{Type: events.TypeOrderCreated}))
	require.NoError(t, store.RecordActivity(ctx, events.Event{Type: events.TypeReservationCreated}))

	counts, err := store.DailyActivity(ctx, store.now())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		events.TypeOrderCreated:       2,
		events.TypeReservationCreated: 1,
	}, counts)
	assert.Equal(t, dailyTTL, mr.TTL("notify:daily:2025-12-24"))
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, err := store.MarkProcessed(context.Background(), "evt-1")
	assert.Error(t, err)
	assert.Error(t, store.RecordActivity(context.Background(), events.Event{Type: events.TypeOrderCreated}))
}
