package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront_backend/internal/catalog/domain"
)

// CreateProductParams contains data for creating a product.
type CreateProductParams struct {
	Code        string
	Description string
	Tiers       []domain.PriceTier
}

// UpdateProductParams contains data for updating a product. Nil fields are
// left unchanged; a non-nil Tiers slice replaces the whole tier set.
type UpdateProductParams struct {
	ID          uuid.UUID
	Description *string
	Tiers       []domain.PriceTier
}

// Repository defines catalog persistence operations.
type Repository interface {
	// GetByCode retrieves a product by its stable code. Absence is a
	// normal negative result reported as apperr.NotFound.
	GetByCode(ctx context.Context, code string) (domain.Product, error)
	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	// List retrieves all products in creation order.
	List(ctx context.Context) ([]domain.Product, error)
	// Create inserts a product with its price tiers.
	Create(ctx context.Context, params CreateProductParams) (domain.Product, error)
	// Update mutates a product and optionally replaces its tiers.
	Update(ctx context.Context, params UpdateProductParams) (domain.Product, error)
	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}
