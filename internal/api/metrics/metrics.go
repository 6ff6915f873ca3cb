// Package metrics defines the Prometheus metrics for the identity server.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts accounts created through signup.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// RolesAssignedTotal counts explicit role assignments (not the default
// signup assignment).
var RolesAssignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_assigned_total",
		Help:      "Total number of role assignments performed.",
	},
)

// TokenIssueFailures counts sign-ins that failed at token issuance after
// the credentials had already been accepted.
var TokenIssueFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_issue_failures_total",
		Help:      "Total number of token issuance failures.",
	},
)

// AuditEventsDropped counts audit events discarded because the dispatcher
// queue was full.
var AuditEventsDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped before recording.",
	},
)
