package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

const auditCollection = "inventory_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert persists an audit event. Redelivery of the same event id is a no-op.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"_id":         event.ID,
		"action":      string(event.Action),
		"item_id":     event.ItemID,
		"actor":       event.Actor,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
		"item": bson.M{
			"id":          event.Item.ID,
			"name":        event.Item.Name,
			"description": event.Item.Description,
			"quantity":    event.Item.Quantity,
			"price":       event.Item.Price,
			"created_at":  event.Item.CreatedAt.UTC(),
		},
	}

	_, err := r.db.Collection(auditCollection).InsertOne(ctx, doc)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureAuditIndexes creates the lookup index used to read an item's history.
func EnsureAuditIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "item_id", Value: 1}, {Key: "occurred_at", Value: 1}},
		Options: options.Index().SetName("item_id_occurred_at"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}
