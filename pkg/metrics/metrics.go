// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ActionsExecuted tracks executed actions by kind and outcome.
	ActionsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actions_executed_total",
			Help: "Executed spreadsheet actions",
		},
		[]string{"kind", "outcome"},
	)

	// ActionDuration tracks end-to-end action execution duration.
	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "action_duration_seconds",
			Help:    "Action execution duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// SimulatedRisk tracks dry-run reports by risk level.
	SimulatedRisk = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulated_risk_total",
			Help: "Dry-run reports by risk level",
		},
		[]string{"kind", "risk"},
	)

	// ConversationTransitions tracks state machine transitions.
	ConversationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_transitions_total",
			Help: "Conversation state transitions",
		},
		[]string{"to", "forced"},
	)

	// ConversationsSwept tracks conversations forced to ERROR by the
	// staleness sweep.
	ConversationsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_swept_total",
			Help: "Stale conversations forced to ERROR",
		},
	)

	// RollbacksExecuted tracks undo executions by outcome.
	RollbacksExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rollbacks_executed_total",
			Help: "Undo plan executions",
		},
		[]string{"undo_kind", "outcome"},
	)

	// RollbacksExpiredCleaned tracks expired rollback records removed by the
	// cleanup job.
	RollbacksExpiredCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rollbacks_expired_cleaned_total",
			Help: "Expired rollback records deleted",
		},
	)

	// ClassifierRequests tracks intent classifier calls.
	ClassifierRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_requests_total",
			Help: "Intent classifier requests",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAction records metrics for one executed action.
func RecordAction(kind, outcome string, duration float64) {
	ActionsExecuted.WithLabelValues(kind, outcome).Inc()
	ActionDuration.WithLabelValues(kind).Observe(duration)
}

// RecordSimulation records a dry-run report.
func RecordSimulation(kind, risk string) {
	SimulatedRisk.WithLabelValues(kind, risk).Inc()
}

// RecordRollback records one undo execution.
func RecordRollback(undoKind, outcome string) {
	RollbacksExecuted.WithLabelValues(undoKind, outcome).Inc()
}
