package middleware

import (
	"net/http"
	"sync"
	"time"

	"recicleaqui/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client keeps its limiter. A bucket is
// full again well before that, so dropping it changes nothing for the client.
const limiterIdleTTL = 5 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of client IPs to their rate limiters.
type rateLimiterStore struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	return &rateLimiterStore{
		visitors: make(map[string]*visitor),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		ttl:      limiterIdleTTL,
		now:      time.Now,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it
// doesn't exist. Idle entries are evicted at most once per ttl.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		for key, v := range s.visitors {
			if now.Sub(v.lastSeen) >= s.ttl {
				delete(s.visitors, key)
			}
		}
		s.lastSweep = now
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.every, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimitMiddleware allows perMinute requests per client IP, refilled
// evenly across the minute. A non-positive perMinute disables limiting.
// The client IP is gin's ClientIP, so forwarding headers only count when the
// engine trusts the proxy that set them.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimit(newRateLimiterStore(perMinute))
}

func rateLimit(store *rateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.JSONError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Try again later.", nil)
			return
		}
		c.Next()
	}
}
