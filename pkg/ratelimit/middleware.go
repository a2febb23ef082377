package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware returns a gin middleware enforcing per-IP limits.
// The bucket is picked from the request path; booking mutations get
// the tightest window.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitType := classify(c.Request.Method, c.Request.URL.Path)

		result, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP(), limitType)
		if err != nil {
			// Redis trouble should not take the API down
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

func classify(method, path string) RateLimitType {
	switch {
	case strings.Contains(path, "/bookings") && method != http.MethodGet:
		return RateLimitTypeBooking
	case strings.Contains(path, "/shows") && method == http.MethodPost:
		return RateLimitTypeAdmin
	case strings.Contains(path, "/movies") || method == http.MethodGet:
		return RateLimitTypePublic
	default:
		return RateLimitTypeDefault
	}
}
