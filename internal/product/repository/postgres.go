package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"user-management-api/internal/product/domain"
)

const productColumns = `id, name, description, price_cents, stock, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a product repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the product for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// Create persists the product. The product must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price_cents, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name,
		sql.NullString{String: p.Description, Valid: p.Description != ""},
		p.PriceCents, p.Stock, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update overwrites the product's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $2, description = $3, price_cents = $4, stock = $5, updated_at = $6 WHERE id = $1`,
		p.ID, p.Name,
		sql.NullString{String: p.Description, Valid: p.Description != ""},
		p.PriceCents, p.Stock, time.Now().UTC())
	return err
}

// Delete removes the product with the given id. Deleting a missing product is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// List returns products ordered by creation time, newest first, with limit and offset.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int32) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p    domain.Product
		desc sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &desc, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Description = desc.String
	return &p, nil
}
