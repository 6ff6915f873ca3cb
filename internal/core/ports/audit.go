package ports

import (
	"context"

	"github.com/identikit/identity-server/internal/core/domain"
)

// AuditRecorder accepts identity events for out-of-band recording. Record
// must not block the request path and must never fail it.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditStore persists audit events.
type AuditStore interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}
