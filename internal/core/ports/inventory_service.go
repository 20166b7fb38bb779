package ports

import (
	"context"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// ItemInput is the DTO passed from the transport layer to InventoryService.
// Quantity and Price are pointers so that an absent field can be told apart from zero.
type ItemInput struct {
	Name        string
	Description string
	Quantity    *int
	Price       *float64
	// Actor is the username of the authenticated caller, recorded in the audit trail.
	Actor string
}

// InventoryService defines use-case operations for the catalog.
type InventoryService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, input ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, input ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64, actor string) (*domain.Item, error)
}

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// AuditService persists a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
