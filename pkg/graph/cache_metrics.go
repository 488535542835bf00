package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_cache_hits_total",
		Help: "Total number of response cache hits.",
	}, []string{"backend"})

	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_cache_misses_total",
		Help: "Total number of response cache misses.",
	}, []string{"backend"})

	cacheErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_cache_errors_total",
		Help: "Total number of response cache backend errors.",
	}, []string{"backend", "operation"})
)
