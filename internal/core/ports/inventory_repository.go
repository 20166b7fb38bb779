package ports

import (
	"context"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// InventoryRepository defines persistence operations for catalog items.
type InventoryRepository interface {
	// List returns every item ordered by id ascending.
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	// Update replaces the mutable fields of the item with the given id.
	// It returns domain.ErrItemNotFound when the id does not exist.
	Update(ctx context.Context, id int64, item *domain.Item) (*domain.Item, error)
	// Delete removes the item and returns the deleted row.
	Delete(ctx context.Context, id int64) (*domain.Item, error)
}

// AuditRepository persists catalog audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
