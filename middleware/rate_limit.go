package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/cppla/aiblog/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// limiterSet holds per-IP token buckets for one middleware instance.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

// RateLimit limits requests per client IP to perMinute. With a Redis client
// the window is shared across instances (fixed one-minute INCR counter);
// otherwise, or when Redis errors, a local token bucket is used.
// perMinute <= 0 disables limiting.
func RateLimit(perMinute int, rdb *redis.Client) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	local := &limiterSet{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()

		var allowed bool
		if rdb != nil {
			ok, err := allowShared(ctx, rdb, ip, perMinute)
			if err != nil {
				utils.Sugar.Warnf("redis rate limit failed, falling back to local limiter: %v", err)
				allowed = local.allow(ip)
			} else {
				allowed = ok
			}
		} else {
			allowed = local.allow(ip)
		}

		if !allowed {
			utils.Error(ctx, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		ctx.Next()
	}
}

func allowShared(ctx *gin.Context, rdb *redis.Client, ip string, perMinute int) (bool, error) {
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx.Request.Context(), key)
	pipe.Expire(ctx.Request.Context(), key, time.Minute)
	if _, err := pipe.Exec(ctx.Request.Context()); err != nil {
		return false, err
	}
	return incr.Val() <= int64(perMinute), nil
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, l := range s.limiters {
		if now.After(l.expires) {
			delete(s.limiters, k)
		}
	}

	l, ok := s.limiters[key]
	if !ok {
		l = &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = l
	}
	l.expires = now.Add(5 * time.Minute)
	return l.limiter.Allow()
}
