package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

// itemColumns normalises nullable description and the numeric price for scanning.
const itemColumns = `id, name, COALESCE(description, ''), quantity, price::float8, COALESCE(created_at, CURRENT_TIMESTAMP)`

// InventoryRepository implements ports.InventoryRepository using PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// List returns every item ordered by id.
func (r *InventoryRepository) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	query := `INSERT INTO inventory (name, description, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns

	created, err := scanItem(r.pool.QueryRow(ctx, query, item.Name, item.Description, item.Quantity, item.Price))
	if err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}
	return created, nil
}

func (r *InventoryRepository) Update(ctx context.Context, id int64, item *domain.Item) (*domain.Item, error) {
	query := `UPDATE inventory
		SET name = $1, description = $2, quantity = $3, price = $4
		WHERE id = $5
		RETURNING ` + itemColumns

	updated, err := scanItem(r.pool.QueryRow(ctx, query, item.Name, item.Description, item.Quantity, item.Price, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	return updated, nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id int64) (*domain.Item, error) {
	query := `DELETE FROM inventory WHERE id = $1 RETURNING ` + itemColumns

	deleted, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("delete inventory item: %w", err)
	}
	return deleted, nil
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

var _ ports.InventoryRepository = (*InventoryRepository)(nil)
