// Package metrics exposes the process's prometheus client_golang
// instrumentation: a per-stage duration histogram and a pipeline failure
// counter, both updated by pipeline.Engine.Run after every stage, plus a
// gauge of open streaming connections.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StageDuration records how long each named stage took to execute.
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vocalagent",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stage execution.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// PipelineFailuresTotal counts engine runs that returned an error,
	// labeled by the stage that failed.
	PipelineFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vocalagent",
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Total pipeline runs that failed, by failing stage.",
		},
		[]string{"stage"},
	)

	// SessionsActive tracks the number of open streaming connections, from
	// websocket upgrade until the connection's message loop returns.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vocalagent",
			Subsystem: "streaming",
			Name:      "sessions_active",
			Help:      "Number of streaming sessions currently active.",
		},
	)
)

func init() {
	prometheus.MustRegister(StageDuration, PipelineFailuresTotal, SessionsActive)
}

// ObserveStage records a stage's execution duration.
func ObserveStage(stage string, elapsed time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// RecordFailure increments the failure counter for the given failing stage
// name.
func RecordFailure(stage string) {
	PipelineFailuresTotal.WithLabelValues(stage).Inc()
}
