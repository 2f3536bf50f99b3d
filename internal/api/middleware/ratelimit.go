package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make another
// request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over the limiter's ceiling with 429. Clients
// are keyed by IP. Limiter failures let the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}
			return next(c)
		}
	}
}

// MemoryLimiter is a per-process token bucket limiter used when no shared
// store is configured. A bucket idle for a whole window is full again, so
// such buckets are dropped; pruning runs at most once per window.
type MemoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	every     rate.Limit
	burst     int
	window    time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window per key, refilled evenly.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &MemoryLimiter{
		clients:   make(map[string]*client),
		every:     rate.Every(window / time.Duration(limit)),
		burst:     limit,
		window:    window,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastPrune) >= m.window {
		m.prune(now)
	}
	c, ok := m.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(m.every, m.burst)}
		m.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1), nil
}

func (m *MemoryLimiter) prune(now time.Time) {
	for key, c := range m.clients {
		if now.Sub(c.lastSeen) >= m.window {
			delete(m.clients, key)
		}
	}
	m.lastPrune = now
}

// Len reports how many clients are currently tracked.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
