package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts   = 5
	DefaultBlockDuration = 15 * time.Minute
)

// LoginLimiter counts failed logins per client key and blocks the key once
// the limit is reached.
// Key format: login:fail:<client> (counter) and login:block:<client> (marker).
type LoginLimiter struct {
	client        *redis.Client
	maxAttempts   int
	blockDuration time.Duration
}

// NewLoginLimiter creates a LoginLimiter. Failures are counted over a window
// equal to blockDuration.
func NewLoginLimiter(client *redis.Client, maxAttempts int, blockDuration time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if blockDuration <= 0 {
		blockDuration = DefaultBlockDuration
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, blockDuration: blockDuration}
}

// Allowed reports whether client may attempt a login. When blocked it also
// returns the remaining block time.
func (l *LoginLimiter) Allowed(ctx context.Context, client string) (bool, time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, l.blockKey(client)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, 0, nil
		}
		return false, 0, fmt.Errorf("login limiter check: %w", err)
	}
	// PTTL returns a negative duration when the key does not exist.
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, ttl, nil
}

// RecordFailure counts a failed attempt and reports whether client is now blocked.
func (l *LoginLimiter) RecordFailure(ctx context.Context, client string) (bool, error) {
	failKey := l.failKey(client)

	count, err := l.client.Incr(ctx, failKey).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, failKey, l.blockDuration).Err(); err != nil {
			return false, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if count < int64(l.maxAttempts) {
		return false, nil
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, l.blockKey(client), "1", l.blockDuration)
		pipe.Del(ctx, failKey)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("login limiter block: %w", err)
	}
	return true, nil
}

// Reset clears the failure counter and any block for client.
func (l *LoginLimiter) Reset(ctx context.Context, client string) error {
	if err := l.client.Del(ctx, l.failKey(client), l.blockKey(client)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) failKey(client string) string {
	return fmt.Sprintf("login:fail:%s", client)
}

func (l *LoginLimiter) blockKey(client string) string {
	return fmt.Sprintf("login:block:%s", client)
}
