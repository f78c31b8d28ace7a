package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/pulsefilter/internal/logger"
	"github.com/guttosm/pulsefilter/internal/metrics"
)

// RateStore counts hits per key inside a fixed window.
type RateStore interface {
	// Hit records one request for key and returns the count in the current
	// window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type client struct {
	windowStart time.Time
	count       int64
}

// MemoryStore keeps counters in process. Suitable for a single instance.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[string]*client), now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.clients[key]
	if !ok || now.Sub(cl.windowStart) >= window {
		cl = &client{windowStart: now}
		s.clients[key] = cl
		s.evict(now, window)
	}
	cl.count++
	return cl.count, nil
}

// evict drops clients whose window is over. Runs only when a new window
// opens so the map stays bounded by the active client set.
func (s *MemoryStore) evict(now time.Time, window time.Duration) {
	for k, cl := range s.clients {
		if now.Sub(cl.windowStart) >= window {
			delete(s.clients, k)
		}
	}
}

// RedisStore shares counters between instances using INCR plus EXPIRE on a
// key per client and window.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "pulsefilter:ratelimit:"}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := time.Now().UnixNano() / int64(window)
	k := s.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis rate counter: %w", err)
	}
	return incr.Val(), nil
}

// RateLimiter allows up to limit requests per window for each client IP and
// answers 429 beyond that. A limit of zero or less disables limiting.
// When the store fails the request is let through and the failure logged.
func RateLimiter(store RateStore, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		n, err := store.Hit(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			logger.L().Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("rate limiter store unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(int64(limit)-n, 0), 10))
		if n > int64(limit) {
			metrics.RateLimited.Inc()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}
