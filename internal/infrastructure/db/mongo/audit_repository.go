package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identikit/identity-server/internal/core/domain"
)

const auditCollection = "identity_audit"

// AuditRepository appends identity events to a Mongo collection. The trail
// is insert-only; events are never updated or deleted by the application.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Action     string `bson:"action"`
	SubjectID  int    `bson:"subject_id,omitempty"`
	Email      string `bson:"email,omitempty"`
	Success    bool   `bson:"success"`
	Detail     string `bson:"detail,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDoc{
		Action:     event.Action,
		SubjectID:  event.SubjectID,
		Email:      event.Email,
		Success:    event.Success,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
