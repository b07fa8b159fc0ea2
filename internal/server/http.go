// Package server assembles the HTTP routes and middleware chain.
package server

import (
	"database/sql"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	healthhandler "user-management-api/internal/health/handler"
	identityhandler "user-management-api/internal/identity/handler"
	producthandler "user-management-api/internal/product/handler"
	productrepo "user-management-api/internal/product/repository"
	"user-management-api/internal/security"
	"user-management-api/internal/server/middleware"
	"user-management-api/internal/telemetry"
	userhandler "user-management-api/internal/user/handler"
	userrepo "user-management-api/internal/user/repository"
)

// Deps holds everything the HTTP server needs. Emitter may be nil; then no
// request telemetry is emitted.
type Deps struct {
	Auth     identityhandler.AuthService
	Users    userrepo.Repository
	Products productrepo.Repository
	Tokens   *security.TokenProvider
	DB       *sql.DB
	Emitter  telemetry.EventEmitter
}

// publicPaths are reachable without a Bearer token.
var publicPaths = map[string]bool{
	"/auth/register": true,
	"/auth/login":    true,
	"/auth/refresh":  true,
	"/healthz":       true,
}

// New builds the handler with all routes registered and the middleware chain
// applied: recovery, tracing, client IP resolution, token validation, then
// request telemetry.
func New(deps Deps) http.Handler {
	mux := http.NewServeMux()

	identityhandler.NewAuthHandler(deps.Auth).Routes(mux)
	userhandler.NewServer(deps.Users).Routes(mux)
	producthandler.NewServer(deps.Products).Routes(mux)

	var pinger healthhandler.Pinger
	if deps.DB != nil {
		pinger = deps.DB
	}
	healthhandler.NewServer(pinger).Routes(mux)

	var h http.Handler = mux
	h = middleware.Telemetry(deps.Emitter, map[string]bool{"/healthz": true})(h)
	h = middleware.Auth(deps.Tokens, publicPaths)(h)
	h = middleware.ClientIPMiddleware(h)
	h = otelhttp.NewHandler(h, "http.server")
	h = middleware.Recover(h)
	return h
}
