package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordHash and the refresh-token fields
// are credential state; they must never be serialized to API responses.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	// RefreshTokenHash is the SHA-256 hash of the single currently valid
	// refresh token, or empty when none is outstanding. When non-empty,
	// RefreshTokenExpiresAt is always set.
	RefreshTokenHash      string
	RefreshTokenExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Role is the user's authorization role.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Validate validates the user for persistence. An empty role defaults to
// RoleUser. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if !u.Role.Valid() {
		return errors.New("unknown role")
	}
	if u.RefreshTokenHash != "" && u.RefreshTokenExpiresAt == nil {
		return errors.New("refresh token without expiry")
	}
	return nil
}

// HasValidRefreshToken reports whether the user holds an unexpired refresh token at now.
func (u *User) HasValidRefreshToken(now time.Time) bool {
	if u.RefreshTokenHash == "" || u.RefreshTokenExpiresAt == nil {
		return false
	}
	return now.Before(*u.RefreshTokenExpiresAt)
}
