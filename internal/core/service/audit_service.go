package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting auth events to the
// audit repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event. The trail is advisory: a write
// failure is logged and reported, never retried here.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		s.log.Warn().Err(err).Str("email", event.Email).Str("kind", string(event.Kind)).Msg("failed to persist auth event")
		return fmt.Errorf("process auth event: %w", err)
	}

	s.log.Debug().Str("email", event.Email).Str("kind", string(event.Kind)).Msg("auth event recorded")
	return nil
}
