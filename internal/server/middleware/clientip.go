package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

var clientIPKey = contextKey{"client_ip"}

// ClientIPMiddleware resolves the client IP once per request and stores it in
// the request context for the audit logger and telemetry.
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the client IP stored by ClientIPMiddleware, or "unknown".
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// clientIP returns the client IP from X-Forwarded-For, X-Real-IP, or RemoteAddr.
func clientIP(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-Ip")); s != "" {
		return s
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
