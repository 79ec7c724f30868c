package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentinel-id/sentinel/internal/users"
)

// AttemptLimiter tracks failed logins per account. The service fails open on
// limiter errors so a Redis outage cannot lock everyone out.
type AttemptLimiter interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RedisLimiter counts failures in Redis with a sliding expiry window.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewRedisLimiter constructs a limiter allowing max failures per window.
func NewRedisLimiter(client *redis.Client, max int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) key(email string) string {
	return "login:attempts:" + users.NormalizeEmail(email)
}

// TooManyAttempts reports whether the account has exhausted its failures.
func (l *RedisLimiter) TooManyAttempts(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("auth: read attempt count: %w", err)
	}
	return count >= l.max, nil
}

// RecordFailure increments the failure count, starting the window on the
// first failure.
func (l *RedisLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("auth: incr attempt count: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("auth: expire attempt count: %w", err)
		}
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (l *RedisLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("auth: reset attempt count: %w", err)
	}
	return nil
}

var _ AttemptLimiter = (*RedisLimiter)(nil)
