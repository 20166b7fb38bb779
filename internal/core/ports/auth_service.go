package ports

import (
	"context"

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// TokenIssuer signs session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
}

// TokenVerifier validates session tokens and returns their claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// BootstrapAccount describes an account provisioned at startup when absent.
type BootstrapAccount struct {
	Username string
	Password string
	Role     string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	Register(ctx context.Context, username, password, role string) (*domain.Account, error)
}
