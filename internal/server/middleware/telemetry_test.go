package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"user-management-api/internal/telemetry"
)

type captureEmitter struct {
	mu     sync.Mutex
	events []*telemetry.Event
	done   chan struct{}
}

func (c *captureEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	close(c.done)
	return nil
}

func TestTelemetry_EmitsRequestEvent(t *testing.T) {
	c := &captureEmitter{done: make(chan struct{})}
	h := Telemetry(c, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry event emitted")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) != 1 {
		t.Fatalf("events: got %d, want 1", len(c.events))
	}
	ev := c.events[0]
	if ev.EventType != "http_request" {
		t.Errorf("event type: got %q", ev.EventType)
	}
	var meta httpRequestMetadata
	if err := json.Unmarshal(ev.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Method != http.MethodGet || meta.Path != "/products" || meta.StatusCode != http.StatusTeapot {
		t.Errorf("metadata: %+v", meta)
	}
}

func TestTelemetry_SkipsConfiguredPaths(t *testing.T) {
	c := &captureEmitter{done: make(chan struct{})}
	h := Telemetry(c, map[string]bool{"/healthz": true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	select {
	case <-c.done:
		t.Error("skipped path emitted an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTelemetry_NilEmitterPassesThrough(t *testing.T) {
	called := false
	h := Telemetry(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("inner handler not called")
	}
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}
