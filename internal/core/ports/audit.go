package ports

import (
	"context"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// AuditService persists a single auth audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository handles audit-trail persistence.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts audit events for asynchronous processing. Recording is
// fire-and-forget: it must never block or fail the request that produced the
// event.
type AuditSink interface {
	Record(event domain.AuthEvent)
}
