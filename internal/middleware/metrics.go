package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware observes request latency labelled by the matched route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
