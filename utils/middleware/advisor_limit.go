package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/utils/cache"
	"github.com/bosala-platform/bosala-api/utils/response"
)

// AdvisorRateLimit throttles the model-backed advisor endpoint per client
// IP using a fixed Redis window. The inference call is the only expensive
// operation in the app, so it gets its own budget on top of the global
// limiter.
type AdvisorRateLimit struct {
	redisCache *cache.RedisCache
	max        int64
	window     time.Duration
}

// NewAdvisorRateLimit creates the limiter. redisCache may be nil; the
// limiter then passes every request through.
func NewAdvisorRateLimit(redisCache *cache.RedisCache, max int64, window time.Duration) *AdvisorRateLimit {
	return &AdvisorRateLimit{
		redisCache: redisCache,
		max:        max,
		window:     window,
	}
}

// Handler returns the Fiber middleware.
func (l *AdvisorRateLimit) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.redisCache == nil {
			return c.Next()
		}

		key := fmt.Sprintf("advisor:limit:%s", c.IP())

		count, err := l.redisCache.Increment(c.Context(), key)
		if err != nil {
			// Redis being down must not block legitimate users
			return c.Next()
		}
		if count == 1 {
			l.redisCache.Expire(c.Context(), key, l.window)
		}

		if count > l.max {
			ttl, _ := l.redisCache.TTL(c.Context(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(l.window.Seconds())
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c,
				fmt.Sprintf("Advisor request limit reached. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}
