package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the shared client's traffic.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts completion requests by provider and model.
	RequestsTotal *prometheus.CounterVec

	// ErrorsTotal counts failed requests by error type.
	ErrorsTotal *prometheus.CounterVec

	// RequestDuration observes end-to-end completion latency.
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates client metrics on the given registry. A nil registry
// gets a private one, which keeps repeated initialization in tests from
// colliding on duplicate collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nanograph_client_requests_total",
				Help: "Total number of completion requests by provider and model",
			},
			[]string{"provider", "model"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nanograph_client_errors_total",
				Help: "Total number of failed completion requests by error type",
			},
			[]string{"type"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nanograph_client_request_duration_seconds",
				Help:    "Duration of completion requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model"},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
