// Package domain holds the core catalog types shared by the stores,
// services, and HTTP handlers.
package domain

import (
	"time"

	"github.com/discograph/discograph/pkg/idx"
)

// Role names carried in access tokens and stored per user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can authenticate against the catalog.
type User struct {
	ID           idx.ID    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
