package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_requests_total",
		Help: "Total number of Graph API requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graph_request_duration_seconds",
		Help:    "Latency of Graph API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_retries_total",
		Help: "Total number of retried attempts by reason.",
	}, []string{"reason"})

	retryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "graph_retry_backoff_seconds",
		Help:    "Backoff waits applied between retry attempts.",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 60, 120},
	})

	retriesExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graph_retries_exhausted_total",
		Help: "Requests that failed after the full retry budget.",
	})
)
