package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"messmate/internal/auth"
	"messmate/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter implements a simple in-memory rate limiter keyed by caller
type RateLimiter struct {
	callers map[string]*caller
	mu      sync.RWMutex
	rate    rate.Limit
	burst   int
	ttl     time.Duration
}

type caller struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
// rps: requests per second
// burst: maximum burst size
// ttl: time to live for caller entries
func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*caller),
		rate:    rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}

	// Clean up old entries periodically
	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, v := range rl.callers {
			if time.Since(v.lastSeen) > rl.ttl {
				delete(rl.callers, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) getCaller(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.callers[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.callers[key] = &caller{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getCaller(key).Allow()
}

// RateLimitMiddleware limits per authenticated user when possible.
// Counter scanners share the mess hall NAT, so keying by IP alone would
// throttle every station at once; falling back to IP only covers
// unauthenticated callers.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(rps, burst, 3*time.Minute)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := auth.GetUserID(c); ok {
			key = "user:" + strconv.Itoa(userID)
		}

		if !limiter.Allow(key) {
			logger.Info("Rate limit exceeded", "key", key, "path", c.FullPath())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
