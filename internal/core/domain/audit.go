package domain

import "time"

// Audit event actions.
const (
	AuditSignUp       = "signup"
	AuditSignIn       = "signin"
	AuditRoleAssigned = "role_assigned"
	AuditRoleCreated  = "role_created"
	AuditRoleDeleted  = "role_deleted"
	AuditUserDeleted  = "user_deleted"
)

// AuditEvent is one entry in the append-only identity audit trail. Events are
// recorded out of band; request outcomes never depend on them.
type AuditEvent struct {
	Action     string    `json:"action"`
	SubjectID  int       `json:"subjectId"`
	Email      string    `json:"email,omitempty"`
	Success    bool      `json:"success"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
