package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository appends auth audit events to their own collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Email     string `bson:"email"`
	Kind      string `bson:"kind"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoAuthEvent{
		Email:     event.Email,
		Kind:      string(event.Kind),
		RemoteIP:  event.RemoteIP,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return storageErr("insert auth event", err)
	}
	return nil
}
