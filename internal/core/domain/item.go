package domain

import "time"

// Item is a single row of the inventory catalog.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditAction names a catalog mutation recorded in the audit trail.
type AuditAction string

const (
	AuditItemCreated AuditAction = "item_created"
	AuditItemUpdated AuditAction = "item_updated"
	AuditItemDeleted AuditAction = "item_deleted"
)

// AuditEvent records who changed which item and the resulting snapshot.
type AuditEvent struct {
	ID         string
	Action     AuditAction
	ItemID     int64
	Actor      string
	Item       Item
	OccurredAt time.Time
}
