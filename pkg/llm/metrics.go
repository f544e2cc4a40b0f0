package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "llm",
		Name:      "attempts_total",
		Help:      "Provider attempts by outcome (success, status, transport, other)",
	}, []string{"provider", "outcome"})

	attemptLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "compass",
		Subsystem: "llm",
		Name:      "attempt_duration_seconds",
		Help:      "Latency of individual provider attempts",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"provider"})

	exhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "llm",
		Name:      "exhausted_total",
		Help:      "Requests that exhausted every provider",
	})
)
