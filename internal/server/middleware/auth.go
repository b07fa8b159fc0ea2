package middleware

import (
	"net/http"
	"strings"

	"user-management-api/internal/security"
)

const bearerPrefix = "bearer "

// Auth returns middleware that validates the Bearer (access) token from the
// Authorization header and sets user_id and role in the request context.
// publicPaths is the set of URL paths that do not require a Bearer token
// (e.g. /auth/register, /auth/login, /auth/refresh, /healthz). A valid token
// on a public path still populates the context.
func Auth(tokens *security.TokenProvider, publicPaths map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			public := publicPaths[r.URL.Path]

			if token == "" {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w)
				return
			}

			claims, err := tokens.ValidateAccess(token)
			if err != nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w)
				return
			}

			ctx := WithIdentity(r.Context(), claims.Subject, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"missing or invalid authorization"}`))
}

// extractBearer returns the Bearer token from the Authorization header, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
