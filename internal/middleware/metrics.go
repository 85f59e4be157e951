package middleware

import (
	"strconv"
	"time"

	appmetrics "alumninet/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics is a Gin middleware collecting Prometheus metrics for HTTP requests.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		method := c.Request.Method

		// Use the route template to keep label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		latency := time.Since(start)

		if appmetrics.HTTPRequestCounter != nil {
			appmetrics.HTTPRequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		}

		if appmetrics.HTTPRequestDuration != nil {
			appmetrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
		}
	}
}
