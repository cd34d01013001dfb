// Package domain holds the core entities of the service.
package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
)

// ParseRole converts a string into a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleManager:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q: must be one of %s, %s, %s", s, RoleAdmin, RoleUser, RoleManager)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

// User is a registered account. The password and refresh-token digests are
// excluded from JSON so they can never leak through a response body.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Address          *string   `json:"address,omitempty"`
	Role             Role      `json:"role"`
	IsActive         bool      `json:"is_active"`
	EmailVerified    bool      `json:"email_verified"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenPair is a freshly minted access/refresh token pair. Only a one-way
// digest of the refresh token is ever persisted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
