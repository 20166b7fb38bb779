package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

// NopAuditSink discards audit events. Used when no audit store is configured.
type NopAuditSink struct{}

func (NopAuditSink) Enqueue(domain.AuditEvent) {}

type InventoryService struct {
	repo   ports.InventoryRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, audit ports.AuditSink, logger zerolog.Logger) *InventoryService {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &InventoryService{repo: repo, audit: audit, logger: logger}
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// CreateItem stores a new item. Description defaults to the empty string.
func (s *InventoryService) CreateItem(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
	item, err := toItem(input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create inventory item")
		return nil, err
	}

	s.logger.Info().Int64("item_id", created.ID).Str("actor", input.Actor).Msg("inventory item created")
	s.record(domain.AuditItemCreated, input.Actor, created)
	return created, nil
}

// UpdateItem replaces all mutable fields of the item. Concurrent updates are last-write-wins.
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error) {
	item, err := toItem(input)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, item)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", id).Str("actor", input.Actor).Msg("inventory item updated")
	s.record(domain.AuditItemUpdated, input.Actor, updated)
	return updated, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id int64, actor string) (*domain.Item, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", id).Str("actor", actor).Msg("inventory item deleted")
	s.record(domain.AuditItemDeleted, actor, deleted)
	return deleted, nil
}

func (s *InventoryService) record(action domain.AuditAction, actor string, item *domain.Item) {
	s.audit.Enqueue(domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ItemID:     item.ID,
		Actor:      actor,
		Item:       *item,
		OccurredAt: time.Now().UTC(),
	})
}

// toItem applies the presence checks shared by create and update.
func toItem(in ports.ItemInput) (*domain.Item, error) {
	if strings.TrimSpace(in.Name) == "" || in.Quantity == nil || in.Price == nil {
		return nil, domain.NewValidationError("Name, quantity, and price are required")
	}
	return &domain.Item{
		Name:        in.Name,
		Description: in.Description,
		Quantity:    *in.Quantity,
		Price:       *in.Price,
	}, nil
}
