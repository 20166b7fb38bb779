package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inventory-system/inventory-api/internal/core/domain"
	"github.com/inventory-system/inventory-api/internal/core/ports"
)

// Context keys populated by Auth.
const (
	ContextKeyClaims   = "claims"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

const (
	msgTokenRequired = "Authentication token required"
	msgInvalidToken  = "Invalid or expired token"
)

// Auth verifies the bearer token and injects its claims into the context.
// A missing token is rejected with 401, a token that fails verification with 403.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenRequired).SetInternal(domain.ErrMissingToken)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, msgInvalidToken).SetInternal(err)
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyUsername, claims.Username)
			c.Set(ContextKeyRole, claims.Role)

			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by Auth, if any.
func ClaimsFromContext(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*domain.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
