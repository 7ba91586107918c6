package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/auditlog-backend/pkg/ctxutil"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type rejectionCounter interface {
	RateLimited(backend string)
}

// RateLimit returns middleware that throttles requests per tenant. It must run
// after tenant resolution; requests without a tenant are keyed by remote
// address. Limiter errors let the request through.
func RateLimit(l Limiter, backend string, counter rejectionCounter, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := ctxutil.TenantIDFromCtx(r.Context())
			if !ok {
				key = "addr:" + r.RemoteAddr
			}

			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable",
					slog.String("backend", backend),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if counter != nil {
					counter.RateLimited(backend)
				}
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ---------------------------------------------------------------------------
// LocalLimiter
// ---------------------------------------------------------------------------

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates a limiter with background cleanup of idle buckets.
// Call Stop() on shutdown.
func NewLocalLimiter(rps float64, burst int, cleanupInterval time.Duration) *LocalLimiter {
	l := &LocalLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		stop:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go l.cleanup(cleanupInterval)
	}
	return l
}

// Stop terminates the background cleanup goroutine.
func (l *LocalLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Allow consumes one token from key's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow(), nil
}

func (l *LocalLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *LocalLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *LocalLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

// ---------------------------------------------------------------------------
// RedisLimiter
// ---------------------------------------------------------------------------

// tokenBucketScript refills and consumes a bucket atomically.
// KEYS[1] bucket key; ARGV rate (tokens/s), capacity, cost, now (unix seconds).
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local cost = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if not tokens or not last_refill then
    tokens = capacity
    last_refill = now
end

local elapsed = now - last_refill
if elapsed > 0 then
    tokens = math.min(capacity, tokens + elapsed * rate)
    last_refill = now
end

local allowed = 0
if tokens >= cost then
    tokens = tokens - cost
    allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_refill", last_refill)
redis.call("EXPIRE", key, 60)

return allowed
`)

// RedisLimiter shares token buckets between replicas through Redis.
type RedisLimiter struct {
	client redis.Scripter
	rps    float64
	burst  int
	prefix string
}

// NewRedisLimiter creates a limiter backed by client.
func NewRedisLimiter(client redis.Scripter, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{client: client, rps: rps, burst: burst, prefix: "auditlog:ratelimit:"}
}

// Allow consumes one token from key's shared bucket.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := float64(time.Now().UnixMicro()) / 1e6

	allowed, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + key}, l.rps, l.burst, 1, now).Int()
	if err != nil {
		return false, fmt.Errorf("redis limiter: %w", err)
	}
	return allowed == 1, nil
}
