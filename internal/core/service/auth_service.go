package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

// AuthService implements login, admin-driven registration and account bootstrap.
type AuthService struct {
	repo   ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.Account, error) {
	if username == "" || password == "" || role == "" {
		return nil, domain.NewValidationError("Username, password, and role are required")
	}
	if len(password) > MaxPasswordBytes {
		return nil, domain.NewValidationError("Password must be at most 72 bytes")
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError("Role must be either admin or staff")
	}

	// The store also rejects duplicates; checking first avoids hashing for nothing.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.create(ctx, username, password, role)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("account_id", account.ID).Str("username", account.Username).Msg("login succeeded")
	return token, account, nil
}

// EnsureBootstrapAccounts creates each account that does not exist yet.
// Existing accounts are left untouched, including their passwords.
func (s *AuthService) EnsureBootstrapAccounts(ctx context.Context, accounts []ports.BootstrapAccount) error {
	for _, a := range accounts {
		_, err := s.repo.FindByUsername(ctx, a.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("bootstrap %s: %w", a.Username, err)
		}
		if !domain.ValidRole(a.Role) {
			return fmt.Errorf("bootstrap %s: unsupported role %q", a.Username, a.Role)
		}

		if _, err := s.create(ctx, a.Username, a.Password, a.Role); err != nil {
			if errors.Is(err, domain.ErrUsernameTaken) {
				continue
			}
			return fmt.Errorf("bootstrap %s: %w", a.Username, err)
		}
		s.log.Warn().Str("username", a.Username).Str("role", a.Role).Msg("bootstrap account created with default password")
	}
	return nil
}

func (s *AuthService) create(ctx context.Context, username, password, role string) (*domain.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
}
