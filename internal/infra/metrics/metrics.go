// Package metrics provides Prometheus metrics for GridMesh: counters and
// gauges for every marketplace state transition.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Devices ────────────────────────────────────────────────────────────────

// DevicesRegistered tracks total device registrations.
var DevicesRegistered = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "devices_registered_total",
	Help:      "Total devices registered.",
})

// ─── Tasks ──────────────────────────────────────────────────────────────────

// TasksSubmitted tracks submitted tasks by type.
var TasksSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tasks_submitted_total",
	Help:      "Total submitted tasks.",
}, []string{"type"})

// TasksAssigned tracks successful assignments by type.
var TasksAssigned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tasks_assigned_total",
	Help:      "Total assigned tasks.",
}, []string{"type"})

// TasksCompleted tracks completed tasks by type.
var TasksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tasks_completed_total",
	Help:      "Total completed tasks.",
}, []string{"type"})

// TasksExpired tracks tasks failed at completion time because the deadline
// had passed.
var TasksExpired = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tasks_expired_total",
	Help:      "Total tasks failed by deadline expiry.",
})

// TasksStaleAssigned reports Assigned tasks past their deadline that no
// device has attempted to complete. Expiration is lazy; this gauge only
// makes the backlog visible.
var TasksStaleAssigned = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "gridmesh",
	Name:      "tasks_stale_assigned",
	Help:      "Assigned tasks past their deadline awaiting a completion attempt.",
})

// ─── Tokens ─────────────────────────────────────────────────────────────────

// TokensDistributed tracks total reward tokens paid out.
var TokensDistributed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tokens_distributed_total",
	Help:      "Total reward tokens distributed to device owners.",
})

// TokensStaked tracks tokens moved into stake custody.
var TokensStaked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tokens_staked_total",
	Help:      "Total tokens moved into stake custody.",
})

// TokensUnstaked tracks tokens returned from stake custody.
var TokensUnstaked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "tokens_unstaked_total",
	Help:      "Total tokens returned from stake custody.",
})

// ─── Verification ───────────────────────────────────────────────────────────

// VerificationVotes tracks votes cast by verdict.
var VerificationVotes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "verification_votes_total",
	Help:      "Total verification votes cast.",
}, []string{"vote"})

// VerificationsFinalized tracks quorum outcomes.
var VerificationsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridmesh",
	Name:      "verifications_finalized_total",
	Help:      "Total verification quorum outcomes.",
}, []string{"outcome"})
