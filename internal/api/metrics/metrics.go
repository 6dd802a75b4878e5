// Package metrics defines and registers all custom Prometheus metrics for the
// task tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics next to the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasktracker"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksSubmittedTotal counts newly submitted tasks.
// Label:
//   - assignment: "self" when the submitter is the assignee, "delegated" otherwise
var TasksSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_submitted_total",
		Help:      "Total number of tasks submitted, by assignment.",
	},
	[]string{"assignment"},
)

// TaskTransitionsTotal counts review workflow actions applied to tasks.
// Label:
//   - action: "approve", "reject", "resubmit", "toggle_completion", "update" or "delete"
var TaskTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_actions_total",
		Help:      "Total number of successful task actions, by action.",
	},
	[]string{"action"},
)

// IdempotencyReplaysTotal counts submissions answered from a stored idempotency key.
var IdempotencyReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_replays_total",
		Help:      "Total number of task submissions replayed from an idempotency key.",
	},
)

// ── Roster metrics ────────────────────────────────────────────────────────────

// RosterChangesTotal counts team roster mutations.
// Label:
//   - action: "add", "update_role" or "remove"
var RosterChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_changes_total",
		Help:      "Total number of team roster changes, by action.",
	},
	[]string{"action"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the current number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each recorder worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts activity entries discarded because a worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped on a full queue.",
	},
)

// ActivityProcessingDuration measures how long persisting a single entry takes.
// Label:
//   - result: "ok" or "error"
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
