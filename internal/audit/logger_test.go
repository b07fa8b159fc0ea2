package audit

import (
	"context"
	"sync"
	"testing"

	"user-management-api/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLogger_LogEvent(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, func(context.Context) string { return "203.0.113.9" })

	l.LogEvent(context.Background(), "u1", "login", "auth", "")

	if len(repo.entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.UserID != "u1" || e.Action != "login" || e.Resource != "auth" {
		t.Errorf("entry: %+v", e)
	}
	if e.IP != "203.0.113.9" {
		t.Errorf("ip: got %q", e.IP)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("id or created_at not set")
	}
}

func TestLogger_NilReceiverAndRepo(t *testing.T) {
	var l *Logger
	l.LogEvent(context.Background(), "u1", "login", "auth", "") // must not panic

	l = NewLogger(nil, nil)
	l.LogEvent(context.Background(), "u1", "login", "auth", "")
}

func TestLogger_NilIPExtractor(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)
	l.LogEvent(context.Background(), "", "login_failure", "auth", "")
	if len(repo.entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip: got %q, want unknown", repo.entries[0].IP)
	}
}
