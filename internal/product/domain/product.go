// Package domain defines the product catalog entity.
package domain

import (
	"errors"
	"time"
)

// Product is a catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	// Price is stored in the smallest currency unit (cents) to avoid
	// floating-point drift.
	PriceCents int64
	Stock      int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the invariants a product row must satisfy before a write.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.PriceCents < 0 {
		return errors.New("product price cannot be negative")
	}
	if p.Stock < 0 {
		return errors.New("product stock cannot be negative")
	}
	return nil
}
