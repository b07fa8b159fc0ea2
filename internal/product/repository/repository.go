package repository

import (
	"context"

	"user-management-api/internal/product/domain"
)

// Repository defines persistence for catalog products.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int32) ([]*domain.Product, error)
}
