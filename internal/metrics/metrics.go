package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MediaOperations counts uploads and deletes against the media store.
	// result is one of success, failure or rejected (breaker open).
	MediaOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_media_operations_total",
			Help: "Total number of media store operations",
		},
		[]string{"op", "kind", "result"},
	)

	// MediaBreakerState is 0 when closed, 1 when half-open and 2 when open.
	MediaBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidtube_media_breaker_state",
			Help: "Current state of the media store circuit breaker",
		},
	)

	ReaperJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidtube_reaper_jobs_total",
			Help: "Orphaned asset deletions by outcome",
		},
		[]string{"result"},
	)
)
