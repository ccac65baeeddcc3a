package storage

import (
	"context"
	"fmt"
	"time"

	"restobar/events"

	"github.com/redis/go-redis/v9"
)

const (
	processedTTL = 7 * 24 * time.Hour
	dailyTTL     = 7 * 24 * time.Hour
)

// Store keeps consumer bookkeeping in Redis: which events were already
// handled and how many of each type arrived per day.
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

func processedKey(eventID string) string {
	return "notify:processed:" + eventID
}

func dailyKey(day time.Time) string {
	return "notify:daily:" + day.Format("2006-01-02")
}

// MarkProcessed reports true the first time eventID is seen.
func (s *Store) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, processedKey(eventID), s.now().Unix(), processedTTL).Result()
}

func (s *Store) RecordActivity(ctx context.Context, event events.Event) error {
	key := dailyKey(s.now())
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, key, 1, event.Type)
		pipe.Expire(ctx, key, dailyTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// DailyActivity returns event counts by type for day.
func (s *Store) DailyActivity(ctx context.Context, day time.Time) (map[string]int, error) {
	members, err := s.rdb.ZRangeWithScores(ctx, dailyKey(day), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(members))
	for _, m := range members {
		counts[fmt.Sprint(m.Member)] = int(m.Score)
	}
	return counts, nil
}
