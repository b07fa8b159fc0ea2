// Package handler exposes readiness for Kubernetes probes and load balancers.
package handler

import (
	"context"
	"net/http"
	"time"

	"user-management-api/internal/platform/httpjson"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server serves GET /healthz.
type Server struct {
	db Pinger
}

// NewServer returns a health handler. db may be nil; then only process
// liveness is reported.
func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

// Routes registers the health endpoint on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.Check)
}

// Check reports 200 when the service and its database are reachable,
// 503 otherwise.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			httpjson.Write(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "unavailable",
				"database": "unreachable",
			})
			return
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
