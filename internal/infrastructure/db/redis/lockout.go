package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockoutTracker counts consecutive failed logins per username in Redis.
// Key format: lockout:<username>. Reaching the threshold locks the account
// for the remainder of the window; a successful login resets the counter.
// This implements the account-lock lifecycle outside the pure core.
type LockoutTracker struct {
	client    *redis.Client
	threshold int
	window    time.Duration
}

// NewLockoutTracker creates a LockoutTracker wrapping the given Redis client.
func NewLockoutTracker(client *redis.Client, threshold int, window time.Duration) *LockoutTracker {
	return &LockoutTracker{client: client, threshold: threshold, window: window}
}

// Locked reports whether the account has reached the failure threshold.
func (t *LockoutTracker) Locked(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n >= int64(t.threshold), nil
}

// RecordFailure increments the failure counter and reports whether this
// failure crossed the threshold. The window TTL is refreshed on every
// failure, so the lock holds as long as attempts keep coming.
func (t *LockoutTracker) RecordFailure(ctx context.Context, username string) (bool, error) {
	key := t.key(username)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("lockout record: %w", err)
	}
	if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
		return false, fmt.Errorf("lockout expire: %w", err)
	}
	return n == int64(t.threshold), nil
}

// Reset clears the failure counter after a successful login.
func (t *LockoutTracker) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

func (t *LockoutTracker) key(username string) string {
	return "lockout:" + username
}
