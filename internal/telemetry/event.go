// Package telemetry defines best-effort event emission for request and auth
// activity (Kafka when configured, OTel logs otherwise).
package telemetry

import (
	"context"
	"encoding/json"
	"time"
)

// Event is a single telemetry event. Metadata is free-form JSON and must
// never contain passwords, tokens, or hashes.
type Event struct {
	UserID    string          `json:"user_id,omitempty"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventEmitter emits telemetry events. Callers use it best-effort: log and
// ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
