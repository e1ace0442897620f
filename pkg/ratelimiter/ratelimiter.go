package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/placementportal/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries the remaining lock time for a throttled action.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter locks an action per subject for a fixed window using SETNX.
// A nil redis client disables throttling.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// Acquire returns a RateLimitError when the subject already holds the lock.
func (l *Limiter) Acquire(ctx context.Context, subject, action string, window time.Duration) error {
	if l == nil || l.rdb == nil || window <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(subject, action), "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(subject, action)).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("too many requests, try again in %.0fs", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

// Release clears the lock, e.g. when the guarded action failed.
func (l *Limiter) Release(ctx context.Context, subject, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(subject, action)).Err()
}
