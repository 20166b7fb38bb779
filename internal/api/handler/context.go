package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inventory-system/inventory-api/internal/api/middleware"
	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// ctxActor returns the username injected by the Auth middleware. The route
// guards guarantee it is present; a missing value means the handler was
// mounted without them.
func ctxActor(c echo.Context) (string, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.Username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(domain.ErrUnauthorized)
	}
	return claims.Username, nil
}

// itemID parses the :id path parameter.
func itemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid item id")
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return c.Validate(req)
}
