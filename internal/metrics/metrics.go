package metrics

import (
	"sync"

	"github.com/go-authgate/kc-connector/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is an alias for core.Recorder so callers only import this package.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// User provisioning metrics
	UserCreationsTotal   *prometheus.CounterVec
	UserCreationDuration prometheus.Histogram

	// Identity provider metrics
	TokenRequestsTotal   *prometheus.CounterVec
	TokenRequestDuration prometheus.Histogram
	ExternalAPICalls     *prometheus.CounterVec
	ExternalAPIDuration  *prometheus.HistogramVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		UserCreationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kc_user_creations_total",
				Help: "Total number of user creation requests by outcome",
			},
			[]string{"result"}, // created, conflict, auth_error, provider_error
		),
		UserCreationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kc_user_creation_duration_seconds",
				Help:    "Time taken to provision a user, token included",
				Buckets: prometheus.DefBuckets,
			},
		),

		TokenRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kc_admin_token_requests_total",
				Help: "Total number of admin token requests",
			},
			[]string{"result"}, // success, error
		),
		TokenRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kc_admin_token_request_duration_seconds",
				Help:    "Time taken to obtain an admin token",
				Buckets: prometheus.DefBuckets,
			},
		),
		ExternalAPICalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kc_external_api_calls_total",
				Help: "Total number of Keycloak API calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		ExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kc_external_api_duration_seconds",
				Help:    "Time taken for Keycloak API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"}, // token, create_user
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
					10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}
