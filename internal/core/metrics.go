package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// User provisioning
	RecordUserCreation(result string, duration time.Duration)

	// Identity provider calls
	RecordTokenRequest(success bool, duration time.Duration)
	RecordExternalAPICall(operation string, statusCode int, duration time.Duration)
}
