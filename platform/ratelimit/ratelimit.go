// Package ratelimit provides fixed-window request limiting for the public API.
// Counters live in Redis so limits hold across replicas; a process-local store
// is used when Redis is not configured.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Window describes a per-route rate limit policy.
type Window struct {
	// Key namespaces the counter (e.g. "jobs:get").
	Key string
	// MaxRequests allowed per Period.
	MaxRequests int
	// Period is the fixed window length.
	Period time.Duration
}

// Store counts requests within fixed windows.
type Store interface {
	// Incr increments the counter for bucket and returns the new count and
	// the moment the window resets. The bucket expires with its window.
	Incr(ctx context.Context, bucket string, period time.Duration) (int64, time.Time, error)
}

// RedisStore backs windows with Redis INCR/EXPIRE.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed window store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, bucket string, period time.Duration) (int64, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(period)
	key := fmt.Sprintf("ratelimit:%s:%d", bucket, windowStart.Unix())

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, period)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	return incr.Val(), windowStart.Add(period), nil
}

// MemoryStore is a process-local Store for development and single-replica
// deployments.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
}

type memoryBucket struct {
	count   int64
	resetAt time.Time
}

// NewMemoryStore creates an in-memory window store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*memoryBucket)}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, bucket string, period time.Duration) (int64, time.Time, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.buckets[bucket]
	if !ok || now.After(entry.resetAt) {
		entry = &memoryBucket{resetAt: now.Add(period)}
		s.buckets[bucket] = entry
	}
	entry.count++

	return entry.count, entry.resetAt, nil
}

// Limiter applies Window policies per client and writes the standard
// X-RateLimit response headers.
type Limiter struct {
	store Store
	log   *logger.Logger
}

// New creates a limiter over the given store.
func New(store Store, log *logger.Logger) *Limiter {
	return &Limiter{store: store, log: log}
}

// Result is the outcome of a single limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Check counts one request from identifier against the window.
// Store failures fail open: a broken Redis must not take the API down.
func (l *Limiter) Check(ctx context.Context, w Window, identifier string) Result {
	bucket := fmt.Sprintf("%s:%s", w.Key, identifier)
	count, resetAt, err := l.store.Incr(ctx, bucket, w.Period)
	if err != nil {
		l.log.Error("rate limit store failure", "bucket", w.Key, "error", err)
		return Result{Allowed: true, Limit: w.MaxRequests, Remaining: w.MaxRequests, ResetAt: time.Now().Add(w.Period)}
	}

	remaining := int64(w.MaxRequests) - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(w.MaxRequests),
		Limit:     w.MaxRequests,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}
}

// Middleware returns a gin handler enforcing the window per client IP.
func (l *Limiter) Middleware(w Window) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := l.Check(c.Request.Context(), w, c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		c.Header("X-RateLimit-Policy", fmt.Sprintf("%d;w=%d", w.MaxRequests, int(w.Period.Seconds())))

		if !result.Allowed {
			retryAfter := time.Until(result.ResetAt).Seconds()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter)))
			l.log.RateLimitExceeded(c.ClientIP(), c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait and try again.",
			})
			return
		}

		c.Next()
	}
}
