package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow bumps the counter and sets its TTL when the window opens.
// A script keeps both steps atomic without EXPIRE NX, which needs Redis 7.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimiter is a fixed-window request counter backed by Redis, shared by
// every API instance.
// Key format: ratelimit:<client>:<window_start_unix>
type RateLimiter struct {
	client redis.Scripter
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit requests per client in each window.
func NewRateLimiter(client redis.Scripter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one request for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key, l.now())

	n, err := incrWindow.Run(ctx, l.client, []string{k}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return n <= l.limit, nil
}

func (l *RateLimiter) key(client string, now time.Time) string {
	start := now.Truncate(l.window)
	return fmt.Sprintf("ratelimit:%s:%d", client, start.Unix())
}
