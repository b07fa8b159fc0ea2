package repository

import (
	"context"
	"time"

	"user-management-api/internal/user/domain"
)

// Repository defines persistence for users, including the credential fields
// the auth service depends on. Implementations must make each write atomic
// per user row; concurrent writes to the same row must not interleave
// partial field updates.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByRefreshTokenHash returns the user holding the given refresh-token
	// hash, or nil if no user holds it.
	GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error)
	// EmailExists reports whether a user with the given email exists (case-insensitive).
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int32) ([]*domain.User, error)
	// SetRefreshToken unconditionally replaces the user's refresh-token hash
	// and expiry. Login uses this; any previously outstanding token becomes
	// invalid in the same write.
	SetRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error
	// RotateRefreshToken replaces the refresh-token hash and expiry only if
	// the stored hash still equals currentHash. Returns false when another
	// rotation won the race; the caller must treat the token as invalid.
	RotateRefreshToken(ctx context.Context, userID, currentHash, newHash string, expiresAt time.Time) (bool, error)
}
