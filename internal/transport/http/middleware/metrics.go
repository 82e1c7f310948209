package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, so scanners probing
// random paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// Metrics records latency and totals per route template, which keeps
// tracking ids out of the labels. Rejections by the auth gate are also
// counted per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()

		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			metrics.AuthRejectedTotal.WithLabelValues(route, status).Inc()
		}
	}
}
