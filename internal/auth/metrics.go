package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graph_token_requests_total",
		Help: "Token acquisitions by credential flow and outcome.",
	}, []string{"flow", "outcome"})

	cachedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graph_cached_sessions",
		Help: "Number of tenant sessions currently cached.",
	})
)
