package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that writes events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("action", string(event.Action)).
		Int64("item_id", event.ItemID).
		Str("actor", event.Actor).
		Msg("audit event stored")
	return nil
}
