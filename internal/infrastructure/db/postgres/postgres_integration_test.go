package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

const testDatabaseURLEnv = "INVENTORY_TEST_DATABASE_URL"

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping PostgreSQL integration test", testDatabaseURLEnv)
	}

	ctx := context.Background()
	pool, err := Connect(ctx, Config{DSN: dsn, MaxConns: 4, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	// Running twice must be harmless.
	require.NoError(t, EnsureSchema(ctx, pool))
	return pool
}

func TestAccountRepository_Integration(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAccountRepository(pool)
	ctx := context.Background()

	username := fmt.Sprintf("it-%s", uuid.NewString()[:8])
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE username = $1`, username)
	})

	_, err := repo.FindByUsername(ctx, username)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	created, err := repo.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleStaff,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := repo.FindByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, domain.RoleStaff, found.Role)
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)

	_, err = repo.Create(ctx, &domain.Account{Username: username, PasswordHash: "x", Role: domain.RoleAdmin, CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = repo.Create(ctx, &domain.Account{Username: username + "-bad", PasswordHash: "x", Role: "root", CreatedAt: time.Now().UTC()})
	require.Error(t, err)
}

func TestInventoryRepository_Integration(t *testing.T) {
	pool := newTestPool(t)
	repo := NewInventoryRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Item{Name: "Widget", Quantity: 3, Price: 9.99})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM inventory WHERE id = $1`, created.ID)
	})
	assert.NotZero(t, created.ID)
	assert.Equal(t, "", created.Description)
	assert.InDelta(t, 9.99, created.Price, 0.001)
	assert.False(t, created.CreatedAt.IsZero())

	items, err := repo.List(ctx)
	require.NoError(t, err)
	var found bool
	for i, it := range items {
		if i > 0 {
			assert.Less(t, items[i-1].ID, it.ID)
		}
		if it.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "created item missing from list")

	updated, err := repo.Update(ctx, created.ID, &domain.Item{Name: "Gadget", Description: "new", Quantity: 0, Price: 0})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = repo.Update(ctx, -1, &domain.Item{Name: "x"})
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", deleted.Name)

	_, err = repo.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}
