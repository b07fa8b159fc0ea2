// Package rbac provides role checks over the identity the auth middleware
// stored in the request context.
package rbac

import (
	"context"
	"errors"

	"user-management-api/internal/server/middleware"
	userdomain "user-management-api/internal/user/domain"
)

var (
	// ErrUnauthenticated is returned when no identity is present in the context.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller's role does not allow the action.
	ErrForbidden = errors.New("admin role required")
)

// RequireAuthenticated ensures the caller is authenticated.
// Returns (userID, role, nil) on success.
func RequireAuthenticated(ctx context.Context) (userID, role string, err error) {
	userID, okUser := middleware.GetUserID(ctx)
	role, okRole := middleware.GetRole(ctx)
	if !okUser || userID == "" || !okRole || role == "" {
		return "", "", ErrUnauthenticated
	}
	return userID, role, nil
}

// RequireAdmin ensures the caller is authenticated and has the Admin role.
// Returns (userID, nil) on success.
func RequireAdmin(ctx context.Context) (userID string, err error) {
	userID, role, err := RequireAuthenticated(ctx)
	if err != nil {
		return "", err
	}
	if userdomain.Role(role) != userdomain.RoleAdmin {
		return "", ErrForbidden
	}
	return userID, nil
}
