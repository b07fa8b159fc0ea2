package middleware

import (
	"context"
	"testing"
)

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetUserID(ctx); ok {
		t.Error("user_id set on empty context")
	}
	if _, ok := GetRole(ctx); ok {
		t.Error("role set on empty context")
	}

	ctx = WithIdentity(ctx, "u1", "Admin")
	if got, ok := GetUserID(ctx); !ok || got != "u1" {
		t.Errorf("GetUserID: got %q, %v", got, ok)
	}
	if got, ok := GetRole(ctx); !ok || got != "Admin" {
		t.Errorf("GetRole: got %q, %v", got, ok)
	}
}
