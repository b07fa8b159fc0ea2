package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"user-management-api/internal/user/domain"
)

const userColumns = `id, email, name, role, password_hash, refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email (case-insensitive), or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// GetByRefreshTokenHash returns the user holding the given refresh-token hash, or nil if none.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token_hash = $1`, hash)
	return scanUser(row)
}

// EmailExists reports whether a user with the given email exists (case-insensitive).
func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, refresh_token_hash, refresh_token_expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email,
		sql.NullString{String: u.Name, Valid: u.Name != ""},
		string(u.Role), u.PasswordHash,
		sql.NullString{String: u.RefreshTokenHash, Valid: u.RefreshTokenHash != ""},
		timeToNullTime(u.RefreshTokenExpiresAt),
		u.CreatedAt, u.UpdatedAt)
	return err
}

// Update updates the user's profile fields (email, name, role). Credential
// fields are updated only through SetRefreshToken and RotateRefreshToken.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, name = $3, role = $4, updated_at = $5 WHERE id = $1`,
		u.ID, u.Email,
		sql.NullString{String: u.Name, Valid: u.Name != ""},
		string(u.Role), time.Now().UTC())
	return err
}

// Delete removes the user with the given id. Deleting a missing user is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// List returns users ordered by creation time, newest first, with limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetRefreshToken replaces the user's refresh-token hash and expiry in a single row write.
func (r *PostgresRepository) SetRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $2, refresh_token_expires_at = $3, updated_at = $4 WHERE id = $1`,
		userID, hash, expiresAt, time.Now().UTC())
	return err
}

// RotateRefreshToken replaces the refresh-token hash and expiry only when the
// stored hash still equals currentHash. The WHERE clause makes the rotation a
// compare-and-swap: a concurrent rotation loser matches zero rows.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, userID, currentHash, newHash string, expiresAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $3, refresh_token_expires_at = $4, updated_at = $5
		 WHERE id = $1 AND refresh_token_hash = $2`,
		userID, currentHash, newHash, expiresAt, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		name      sql.NullString
		tokenHash sql.NullString
		tokenExp  sql.NullTime
		role      string
	)
	err := row.Scan(&u.ID, &u.Email, &name, &role, &u.PasswordHash, &tokenHash, &tokenExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Name = name.String
	u.Role = domain.Role(role)
	u.RefreshTokenHash = tokenHash.String
	if tokenExp.Valid {
		t := tokenExp.Time
		u.RefreshTokenExpiresAt = &t
	}
	return &u, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
