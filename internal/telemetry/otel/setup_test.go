package otel

import (
	"context"
	"testing"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	providers, err := NewProviders(ctx, "", "test-service", false)
	if err != nil {
		t.Fatalf("NewProviders empty endpoint: %v", err)
	}
	if providers.TracerProvider == nil || providers.MeterProvider == nil || providers.LoggerProvider == nil {
		t.Fatal("no-op providers should all be non-nil")
	}
	if err := providers.Shutdown(ctx); err != nil {
		t.Errorf("shutdown should be a no-op for empty endpoint, got: %v", err)
	}
}

func TestNewProviders_WhitespaceEndpoint(t *testing.T) {
	providers, err := NewProviders(context.Background(), "   ", "test-service", false)
	if err != nil {
		t.Fatalf("NewProviders whitespace endpoint: %v", err)
	}
	if providers == nil {
		t.Fatal("providers should not be nil")
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"http://[invalid", "http://"} {
		if _, err := NewProviders(context.Background(), endpoint, "test-service", false); err == nil {
			t.Errorf("NewProviders(%q) should return error", endpoint)
		}
	}
}

func TestNewEventEmitter_NilProvider(t *testing.T) {
	e := NewEventEmitter(nil)
	if e == nil {
		t.Fatal("emitter should not be nil")
	}
	if err := e.Emit(context.Background(), nil); err != nil {
		t.Errorf("no-op emit: %v", err)
	}
}
