package middleware

import "context"

type contextKey struct{ name string }

var (
	userIDKey = contextKey{"user_id"}
	roleKey   = contextKey{"role"}
)

// WithIdentity returns a context with user_id and role set.
// Handlers read these via GetUserID and GetRole.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetRole returns the role from context and true if set; otherwise "", false.
func GetRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(roleKey).(string)
	return v, ok
}
