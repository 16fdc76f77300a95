// README: Request logging and metrics middleware.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TaggTeeM/taggteemflagg/internal/observability"
)

// Logging writes one structured line per request and feeds the request
// counter and latency histogram.
func Logging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		observability.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, status).Inc()
		observability.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, status).Observe(elapsed.Seconds())

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed),
		)
	}
}
