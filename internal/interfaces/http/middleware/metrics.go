package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latencies. Paths are the route
// templates, not raw URLs, to keep label cardinality bounded.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		active := m.HTTPActiveRequests.WithLabelValues(c.Request.Method, path)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		prometheus.RecordHTTPRequest(m, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
