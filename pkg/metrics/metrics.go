// Package metrics exposes the Prometheus instrumentation of the shape
// measure pipeline. Metrics are observed by the dispatcher around the
// engine; the engine itself stays a pure computation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComputationsTotal counts finished measure computations, labeled by
	// reference geometry code, effort mode and outcome.
	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shapecore_computations_total",
			Help: "Total number of shape measure computations",
		},
		[]string{"geometry", "mode", "outcome"},
	)

	// ComputationDuration measures wall time per computation. The search
	// budget is mode-bound, so buckets stop at a minute.
	ComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shapecore_computation_duration_seconds",
			Help:    "Duration of shape measure computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"geometry", "mode"},
	)

	// SearchProgressTotal counts progress events reported by the engine,
	// labeled by search stage.
	SearchProgressTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shapecore_search_progress_events_total",
			Help: "Total number of global-search progress events",
		},
		[]string{"stage"},
	)
)
