package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-booking-api/pkg/httputil"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	TTL   time.Duration
}

// RateLimiter keeps a token bucket per client IP. Buckets live in an
// expiring cache so idle clients age out instead of growing the map
// for the life of the process.
type RateLimiter struct {
	limiters *cache.Cache
	config   RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.RPS <= 0 {
		config.RPS = 10
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &RateLimiter{
		limiters: cache.New(config.TTL, 2*config.TTL),
		config:   config,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	if cached, ok := rl.limiters.Get(ip); ok {
		limiter := cached.(*rate.Limiter)
		// Refresh expiry so active clients keep their bucket.
		rl.limiters.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	if err := rl.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request won the insert; use its bucket.
		if cached, ok := rl.limiters.Get(ip); ok {
			return cached.(*rate.Limiter)
		}
	}
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, httputil.Response{
				Status:  "error",
				Message: "rate limit exceeded",
				Kind:    "rate_limited",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
