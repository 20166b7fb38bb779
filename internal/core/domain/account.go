package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// Account models an operator allowed to sign in to the inventory system.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

// Claims is the identity carried by a session token.
type Claims struct {
	AccountID int64
	Username  string
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
