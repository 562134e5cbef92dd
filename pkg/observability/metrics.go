// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the CogniCase backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets for interactive CRUD latencies,
// ranging from 5ms to 10s.
var APIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and resource.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognicase_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "resource"},
	)

	// RequestDuration records HTTP request duration in seconds by method and resource.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cognicase_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method", "resource"},
	)

	// OTPIssuedTotal counts one-time codes issued, by delivery outcome.
	OTPIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognicase_otp_issued_total",
			Help: "One-time codes issued",
		},
		[]string{"delivery"},
	)

	// OTPVerificationsTotal counts verification attempts by outcome.
	OTPVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cognicase_otp_verifications_total",
			Help: "Verification attempts",
		},
		[]string{"outcome"},
	)

	// AuthRejectedTotal counts requests rejected by the auth middleware.
	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cognicase_auth_rejected_total",
			Help: "Requests rejected as unauthenticated",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		OTPIssuedTotal,
		OTPVerificationsTotal,
		AuthRejectedTotal,
	)
}
