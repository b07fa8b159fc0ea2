package domain

import "time"

// AuditLog is a single recorded action: who did what to which resource.
// Metadata is free-form JSON; it must never contain passwords, tokens, or hashes.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
