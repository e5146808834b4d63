package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal tracks supervisor cycles by outcome
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_cycles_total",
			Help: "Total number of supervisor cycles by outcome",
		},
		[]string{"outcome"},
	)

	// CycleErrorsTotal tracks cycles aborted on store errors
	CycleErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netwatch_cycle_errors_total",
			Help: "Total number of cycles aborted before taking any action",
		},
	)

	// FailureCount tracks the persisted consecutive-failure count
	FailureCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_failure_count",
			Help: "Persisted consecutive probe failure count",
		},
	)

	// ProbeDuration tracks probe latency
	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netwatch_probe_duration_seconds",
			Help:    "Health probe duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"probe"},
	)

	// ActionsTotal tracks launched recovery actions
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_recovery_actions_total",
			Help: "Total number of recovery actions launched",
		},
		[]string{"kind", "result"},
	)
)
