package repository

import (
	"context"
	"database/sql"

	"user-management-api/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists one audit log entry.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_id, action, resource, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID,
		sql.NullString{String: entry.UserID, Valid: entry.UserID != ""},
		entry.Action, entry.Resource, entry.IP,
		sql.NullString{String: entry.Metadata, Valid: entry.Metadata != ""},
		entry.CreatedAt)
	return err
}

// ListByUser returns audit entries for the given user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, resource, ip, metadata, created_at
		 FROM audit_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		var (
			e        domain.AuditLog
			uid      sql.NullString
			metadata sql.NullString
		)
		if err := rows.Scan(&e.ID, &uid, &e.Action, &e.Resource, &e.IP, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = uid.String
		e.Metadata = metadata.String
		out = append(out, &e)
	}
	return out, rows.Err()
}
