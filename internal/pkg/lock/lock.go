// Package lock keeps concurrent requests for the same resource from racing into the database.
// Correctness never depends on it: the database constraints hold regardless.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when another holder keeps the key past every retry.
var ErrNotObtained = errors.New("resource is busy, try again")

// Releaser gives a held lock back.
type Releaser interface {
	Release(ctx context.Context) error
}

type Locker interface {
	Obtain(ctx context.Context, key string) (Releaser, error)
}

// PunchDayKey is the lock key serializing punch registration of one employee on one date.
func PunchDayKey(employeeID, date string) string {
	return fmt.Sprintf("punch:%s:%s", employeeID, date)
}

type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker retries every 100ms for up to a second before giving up.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 10),
	}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (Releaser, error) {
	held, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotObtained)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return held, nil
}

// NoopLocker always succeeds. It is used when Redis is not configured.
type NoopLocker struct{}

func (NoopLocker) Obtain(ctx context.Context, key string) (Releaser, error) {
	return noopReleaser{}, nil
}

type noopReleaser struct{}

func (noopReleaser) Release(ctx context.Context) error {
	return nil
}
