// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the authentication gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// StoreBuckets defines histogram buckets for durable session store calls,
// ranging from 1ms to 2.5s.
var StoreBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Gate decision outcomes used as the "outcome" label of AuthDecisionsTotal.
const (
	OutcomeExcluded     = "excluded"
	OutcomeAllowed      = "allowed"
	OutcomeUnauthorized = "unauthorized"
	OutcomeForbidden    = "forbidden"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authgate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthDecisionsTotal counts request gate decisions by provider kind and outcome.
	AuthDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_auth_decisions_total",
			Help: "Request gate decisions",
		},
		[]string{"kind", "outcome"},
	)

	// SessionOperationsTotal counts session registry operations by
	// registry layer, operation and result (hit/miss).
	SessionOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_session_operations_total",
			Help: "Session registry operations",
		},
		[]string{"registry", "operation", "result"},
	)

	// SessionsActive tracks the sessions held by in-memory registries.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "authgate_sessions_active",
			Help: "Sessions held in memory",
		},
	)

	// SessionStoreErrorsTotal counts failed durable session store calls.
	SessionStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_session_store_errors_total",
			Help: "Session store errors",
		},
		[]string{"operation"},
	)

	// SessionStoreLatency records durable session store latency in seconds.
	SessionStoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authgate_session_store_latency_seconds",
			Help:    "Session store latency",
			Buckets: StoreBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthDecisionsTotal,
		SessionOperationsTotal,
		SessionsActive,
		SessionStoreErrorsTotal,
		SessionStoreLatency,
	)
}

// Result maps a boolean outcome to the "result" label value.
func Result(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
