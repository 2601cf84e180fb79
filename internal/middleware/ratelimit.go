package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether one more request for key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over the limiter's budget with 429. Requests are
// keyed by the connection's remote address and path; forwarding headers are
// never consulted. Limiter errors let the request through.
func RateLimit(limiter Limiter, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientHost(r.RemoteAddr) + " " + r.URL.Path

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warnw("Rate limiter unavailable", "error", err)
			}
			if !allowed && err == nil {
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// MemoryLimiter implements a per-key one-minute window in process memory
type MemoryLimiter struct {
	mu                sync.Mutex
	clients           map[string]*client
	requestsPerMinute int
	clock             func() time.Time
}

type client struct {
	count    int
	lastSeen time.Time
}

// NewMemoryLimiter creates an in-memory limiter
func NewMemoryLimiter(requestsPerMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		clients:           make(map[string]*client),
		requestsPerMinute: requestsPerMinute,
		clock:             time.Now,
	}
}

// Allow counts a request for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	c, exists := l.clients[key]
	if !exists {
		l.clients[key] = &client{count: 1, lastSeen: now}
		return true, nil
	}

	if now.Sub(c.lastSeen) > time.Minute {
		c.count = 1
		c.lastSeen = now
	} else {
		c.count++
	}

	return c.count <= l.requestsPerMinute, nil
}

// Run removes stale entries every interval until ctx is cancelled
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > 2*time.Minute {
			delete(l.clients, key)
		}
	}
}

// RedisLimiter shares fixed one-minute windows across server instances
type RedisLimiter struct {
	client            *redis.Client
	requestsPerMinute int
	prefix            string
	clock             func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client *redis.Client, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		prefix:            "ratelimit:",
		clock:             time.Now,
	}
}

// Allow increments the window counter for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.clock().Unix() / 60
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= int64(l.requestsPerMinute), nil
}

// Ping checks the Redis connection
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
