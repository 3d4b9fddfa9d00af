// server/internal/api/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"workforce-ops-api-server/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics ghi số request và độ trễ theo route template (không theo path thật để tránh
// bùng nổ label).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
