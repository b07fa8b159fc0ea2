package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"user-management-api/internal/telemetry"
)

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Telemetry returns middleware that emits a telemetry event after each request.
// Best-effort: failures are logged and do not fail the request. If emitter is
// nil, the middleware no-ops. skipPaths is the set of paths to not emit
// (e.g. /healthz).
func Telemetry(emitter telemetry.EventEmitter, skipPaths map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if emitter == nil || skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			meta := httpRequestMetadata{
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: rec.status,
				DurationMs: time.Since(start).Milliseconds(),
				ClientIP:   ClientIP(r.Context()),
			}
			metaJSON, _ := json.Marshal(meta)
			userID, _ := GetUserID(r.Context())
			telemetry.EmitAsync(emitter, r.Context(), &telemetry.Event{
				UserID:    userID,
				EventType: "http_request",
				Source:    "http_middleware",
				Metadata:  metaJSON,
				CreatedAt: time.Now().UTC(),
			})
		})
	}
}
