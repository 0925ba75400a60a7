package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter is the slice of the Redis client the limiter needs.
type AttemptCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// LoginLimiter throttles login attempts per account with a fixed window
// counter in Redis. Key format: login_attempts:<email>
type LoginLimiter struct {
	client AttemptCounter
	max    int64
	window time.Duration
}

// NewLoginLimiter creates a limiter allowing max attempts per window.
func NewLoginLimiter(client AttemptCounter, max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, max: int64(max), window: window}
}

// Allow counts the attempt and reports whether it is within the window
// budget. The counter key expires with the window, so attempts are
// forgotten automatically.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	// NX on every attempt: repeat attempts keep their original window,
	// and a counter left without expiry by an earlier failed EXPIRE
	// picks one up instead of growing forever.
	if err := l.client.ExpireNX(ctx, k, l.window).Err(); err != nil {
		return false, fmt.Errorf("rate limit expire: %w", err)
	}
	return n <= l.max, nil
}

func (l *LoginLimiter) key(s string) string {
	return "login_attempts:" + s
}
