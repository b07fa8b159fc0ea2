package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"user-management-api/internal/telemetry"
)

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("usermgmt.telemetry")}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *telemetry.Event) error { return nil }

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the telemetry event to an OTel log record and emits it. Best-effort.
func (e *otelEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if len(event.Metadata) > 0 {
		rec.SetBody(otellog.BytesValue(event.Metadata))
	}
	if event.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", event.UserID))
	}
	if event.EventType != "" {
		rec.AddAttributes(otellog.String("event_type", event.EventType))
	}
	if event.Source != "" {
		rec.AddAttributes(otellog.String("source", event.Source))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
