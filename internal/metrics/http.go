package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		// NoopMetrics or unknown implementation
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath returns the route pattern, or "unknown" for unmatched routes
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// RecordUserCreation records the outcome of a POST /user call
func (m *Metrics) RecordUserCreation(result string, duration time.Duration) {
	m.UserCreationsTotal.WithLabelValues(result).Inc()
	m.UserCreationDuration.Observe(duration.Seconds())
}

// RecordTokenRequest records an admin token request
func (m *Metrics) RecordTokenRequest(success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.TokenRequestsTotal.WithLabelValues(result).Inc()
	m.TokenRequestDuration.Observe(duration.Seconds())
}

// RecordExternalAPICall records a Keycloak API call. statusCode 0 means no response.
func (m *Metrics) RecordExternalAPICall(operation string, statusCode int, duration time.Duration) {
	status := resultError
	if statusCode != 0 {
		status = strconv.Itoa(statusCode)
	}
	m.ExternalAPICalls.WithLabelValues(operation, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
