package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steward",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status.",
	}, []string{"method", "status"})

	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steward",
		Subsystem: "router",
		Name:      "turns_total",
		Help:      "Router turns processed, by outcome.",
	}, []string{"outcome"})

	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "steward",
		Subsystem: "router",
		Name:      "turn_duration_seconds",
		Help:      "End-to-end turn latency including all tool hops.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steward",
		Subsystem: "api",
		Name:      "rate_limited_total",
		Help:      "Chat requests rejected by the per-conversation rate limiter.",
	})
)

const (
	outcomeOK      = "ok"
	outcomeApology = "apology"
	outcomeError   = "error"
)
