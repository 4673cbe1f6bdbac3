package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter caps requests per client IP over a sliding one-minute window.
// State is in-process; a multi-instance deployment limits per instance.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	windows map[string]*clientWindow
}

type clientWindow struct {
	count      int
	windowFrom time.Time
}

// NewRateLimiter creates a limiter allowing rpm requests per minute per IP.
// A non-positive rpm disables limiting.
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{limit: rpm, windows: make(map[string]*clientWindow)}
}

// Handler returns the gin middleware.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "error_description": "Too many requests."})
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.windowFrom) >= time.Minute {
		l.windows[key] = &clientWindow{count: 1, windowFrom: now}
		l.evictStale(now)
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// evictStale drops windows idle for more than two minutes. Called with the
// lock held, on the window-rollover path only.
func (l *RateLimiter) evictStale(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.windowFrom) > 2*time.Minute {
			delete(l.windows, key)
		}
	}
}
