package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/model"
)

// RateLimiter is a per-key token bucket. Buckets live in process
// memory; the API runs as a single instance.
type RateLimiter struct {
	requestsPerWindow int
	window            time.Duration
	burst             int

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

func NewRateLimiter(requestsPerWindow int, window time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		requestsPerWindow: requestsPerWindow,
		window:            window,
		burst:             burst,
		buckets:           make(map[string]*bucket),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	maxTokens := float64(rl.requestsPerWindow + rl.burst)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: maxTokens, lastUpdate: now}
		rl.buckets[key] = b
	}

	refill := now.Sub(b.lastUpdate).Seconds() * float64(rl.requestsPerWindow) / rl.window.Seconds()
	b.tokens += refill
	if b.tokens > maxTokens {
		b.tokens = maxTokens
	}
	b.lastUpdate = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit rejects clients that exceed the per-IP budget.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			abortError(c, http.StatusTooManyRequests, model.CodeBadRequest, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
