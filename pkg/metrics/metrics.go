package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// ReportsCreated counts new lost/found reports by report type.
	ReportsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_reports_created_total",
			Help: "Total number of item reports created",
		},
		[]string{"tipe"},
	)

	// ClaimsFiled counts claim submissions and adjudication outcomes.
	ClaimsFiled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lostfound_claims_total",
			Help: "Total number of claim operations by outcome",
		},
		[]string{"outcome"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lostfound_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
