package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

const uniqueViolation = "23505"

// AccountRepository implements ports.CredentialStore using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `SELECT id, username, password, role, COALESCE(created_at, CURRENT_TIMESTAMP)
		FROM users WHERE username = $1`

	var a domain.Account
	err := r.pool.QueryRow(ctx, query, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

// Create inserts the account. A concurrent insert of the same username
// surfaces as ErrUsernameTaken through the unique constraint.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const query = `INSERT INTO users (username, password, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	created := *account
	err := r.pool.QueryRow(ctx, query, account.Username, account.PasswordHash, account.Role, account.CreatedAt).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &created, nil
}

var _ ports.CredentialStore = (*AccountRepository)(nil)
