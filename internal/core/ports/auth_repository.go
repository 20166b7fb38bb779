package ports

import (
	"context"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// CredentialStore persists accounts and their password hashes.
type CredentialStore interface {
	// FindByUsername returns domain.ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Create returns domain.ErrUsernameTaken when the username is already present.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// PasswordHasher performs the one-way password hashing used by the CredentialStore.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
