package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "workflow",
		Name:      "reports_total",
		Help:      "Reports generated by computed tier",
	}, []string{"tier"})

	tierMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "workflow",
		Name:      "tier_mismatches_total",
		Help:      "Reports whose stated tier differs from the computed tier",
	})

	duplicateResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "workflow",
		Name:      "question_resolutions_total",
		Help:      "Generated questions by duplicate guard verdict",
	}, []string{"resolution"})

	recordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "workflow",
		Name:      "session_record_failures_total",
		Help:      "Background session writes that failed",
	})
)
