package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/gin-gonic/gin"
)

const errRateLimited = "Too many requests, please try again later"

// HitCounter is satisfied by redis.WindowCounter.
type HitCounter interface {
	Hit(ctx context.Context, key string) (int, time.Duration, error)
}

// RateLimit allows limit requests per client IP and route within the
// counter's window. A nil counter disables limiting, and counter errors fail
// open so a redis outage never takes the API down.
func RateLimit(counter HitCounter, limit int, logger *slog.Logger) gin.HandlerFunc {
	if counter == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := "rl:" + path + ":" + c.ClientIP()

		count, ttl, err := counter.Hit(c.Request.Context(), key)
		if err != nil {
			logger.WarnContext(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		resetSec := int(math.Ceil(ttl.Seconds()))
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > limit {
			metrics.RateLimitedTotal.WithLabelValues(path).Inc()
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errRateLimited})
			return
		}
		c.Next()
	}
}
