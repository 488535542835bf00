// Package metrics provides the centralized Prometheus metrics registry for
// the tenantctl client. All metrics are defined in their respective packages
// (internal/http, internal/auth, pkg/graph) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (internal/http):
//   - graph_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - graph_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//
// Retry Metrics (internal/http):
//   - graph_retries_total{reason} (Counter): Retried attempts by reason (throttling, transient_server)
//   - graph_retry_backoff_seconds (Histogram): Backoff waits applied between attempts
//   - graph_retries_exhausted_total (Counter): Requests that failed after the full retry budget
//
// Session Metrics (internal/auth):
//   - graph_token_requests_total{flow, outcome} (Counter): Token acquisitions by credential flow and outcome
//   - graph_cached_sessions (Gauge): Tenant sessions currently cached
//
// Cache Metrics (pkg/graph):
//   - graph_cache_hits_total{backend} (Counter): Response cache hits by backend
//   - graph_cache_misses_total{backend} (Counter): Response cache misses by backend
//   - graph_cache_errors_total{backend, operation} (Counter): Cache backend errors by operation
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate
//	sum(rate(graph_cache_hits_total[5m])) /
//	(sum(rate(graph_cache_hits_total[5m])) + sum(rate(graph_cache_misses_total[5m])))
//
//	# Throttling Rate
//	rate(graph_retries_total{reason="throttling"}[5m])
//
//	# P95 Request Latency
//	histogram_quantile(0.95, rate(graph_request_duration_seconds_bucket[5m]))
//
//	# Failed Token Acquisitions
//	rate(graph_token_requests_total{outcome="failure"}[5m])
