package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	TurnOutcomeAnswered  = "answered"
	TurnOutcomeFailed    = "failed"
	CompletionStatusOK   = "ok"
	CompletionStatusFail = "error"
)

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samarth_turns_total",
			Help: "Total number of question turns processed by the pipeline.",
		},
		[]string{"outcome"},
	)
	turnDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "samarth_turn_duration_seconds",
			Help:    "End-to-end latency of one question turn.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
	)
	stageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "samarth_stage_duration_seconds",
			Help:    "Latency of each pipeline step.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"stage"},
	)
	queryExecutionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "samarth_query_execution_failures_total",
			Help: "Total number of generated queries that failed to execute.",
		},
	)
	completionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "samarth_completion_requests_total",
			Help: "Total number of text-completion requests by provider and status.",
		},
		[]string{"provider", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		turnsTotal,
		turnDurationSeconds,
		stageDurationSeconds,
		queryExecutionFailuresTotal,
		completionRequestsTotal,
	)
}

func ObserveTurn(failed bool, elapsed time.Duration) {
	outcome := TurnOutcomeAnswered
	if failed {
		outcome = TurnOutcomeFailed
	}
	turnsTotal.WithLabelValues(outcome).Inc()
	turnDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveStage(stage string, elapsed time.Duration) {
	stageDurationSeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func IncrementQueryExecutionFailure() {
	queryExecutionFailuresTotal.Inc()
}

func ObserveCompletion(provider string, err error) {
	status := CompletionStatusOK
	if err != nil {
		status = CompletionStatusFail
	}
	completionRequestsTotal.WithLabelValues(provider, status).Inc()
}
