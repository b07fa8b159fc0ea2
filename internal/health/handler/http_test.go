package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakePinger struct{ err error }

func (f *fakePinger) PingContext(ctx context.Context) error { return f.err }

func check(t *testing.T, db Pinger) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewServer(db).Routes(mux)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return rr
}

func TestCheck_Healthy(t *testing.T) {
	rr := check(t, &fakePinger{})
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Errorf("body: %q", rr.Body.String())
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	rr := check(t, &fakePinger{err: errors.New("connection refused")})
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Error("response leaks internal error detail")
	}
}

func TestCheck_NilDB(t *testing.T) {
	rr := check(t, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}
