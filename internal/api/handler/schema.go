package handler

import "github.com/inventory-system/inventory-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  accountPayload `json:"user"`
}

// Presence and role checks for registration live in the auth service.
type registerRequest struct {
	Username string `json:"username" validate:"max=255"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type accountPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// --- Catalog ---

// itemRequest uses pointers for quantity and price so a missing field is
// distinguishable from zero.
type itemRequest struct {
	Name        string   `json:"name"        validate:"max=255"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

type deleteItemResponse struct {
	Message string      `json:"message"`
	Item    domain.Item `json:"item"`
}

func toAccountPayload(a *domain.Account) accountPayload {
	return accountPayload{ID: a.ID, Username: a.Username, Role: a.Role}
}
