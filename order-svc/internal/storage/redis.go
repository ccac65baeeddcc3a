package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) ReviewMarkerKey(orderID, userID int) string {
	return "review:" + strconv.Itoa(orderID) + ":" + strconv.Itoa(userID)
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	res, err := c.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *RedisCache) SetMarker(ctx context.Context, key string) error {
	return c.Client.Set(ctx, key, "1", c.TTL).Err()
}

// LoginLimiter counts failed logins per key. Reaching MaxAttempts within
// Cooldown sets a lock key that expires after Cooldown.
type LoginLimiter struct {
	Client      *redis.Client
	MaxAttempts int
	Cooldown    time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, cooldown time.Duration) *LoginLimiter {
	return &LoginLimiter{Client: client, MaxAttempts: maxAttempts, Cooldown: cooldown}
}

func (l *LoginLimiter) attemptsKey(key string) string {
	return "login:attempts:" + key
}

func (l *LoginLimiter) lockKey(key string) string {
	return "login:lock:" + key
}

func (l *LoginLimiter) Check(ctx context.Context, key string) (bool, time.Duration, error) {
	ttl, err := l.Client.PTTL(ctx, l.lockKey(key)).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	attempts, err := l.Client.Incr(ctx, l.attemptsKey(key)).Result()
	if err != nil {
		return err
	}
	if attempts == 1 {
		if err := l.Client.Expire(ctx, l.attemptsKey(key), l.Cooldown).Err(); err != nil {
			return err
		}
	}
	if attempts < int64(l.MaxAttempts) {
		return nil
	}

	_, err = l.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, l.lockKey(key), "1", l.Cooldown)
		pipe.Del(ctx, l.attemptsKey(key))
		return nil
	})
	return err
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.Client.Del(ctx, l.attemptsKey(key), l.lockKey(key)).Err()
}
