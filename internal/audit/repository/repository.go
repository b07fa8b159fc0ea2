package repository

import (
	"context"

	"user-management-api/internal/audit/domain"
)

// Repository defines persistence for audit log entries.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
