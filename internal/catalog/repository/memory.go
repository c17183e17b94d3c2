package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/apperr"
)

// Memory provides an in-memory implementation of Repository, used by tests
// and fixture-driven development mode. Insertion order is preserved so that
// List matches the Postgres creation-order contract.
type Memory struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewMemory creates a new in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Repository = (*Memory)(nil)

// GetByCode retrieves a product by its stable code.
func (m *Memory) GetByCode(ctx context.Context, code string) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.Code == code {
			return p, nil
		}
	}
	return domain.Product{}, apperr.NotFound(productNotFoundMessage)
}

// GetByID retrieves a product by ID.
func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperr.NotFound(productNotFoundMessage)
}

// List returns all products in insertion order.
func (m *Memory) List(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

// Create stores a product.
func (m *Memory) Create(ctx context.Context, params CreateProductParams) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Code == params.Code {
			return domain.Product{}, apperr.Conflict("product code already exists")
		}
	}
	product := domain.Product{
		ID:          uuid.New(),
		Code:        params.Code,
		Description: params.Description,
		Tiers:       params.Tiers,
	}
	m.products = append(m.products, product)
	return product, nil
}

// Update mutates a product in place.
func (m *Memory) Update(ctx context.Context, params UpdateProductParams) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID == params.ID {
			if params.Description != nil {
				p.Description = *params.Description
			}
			if params.Tiers != nil {
				p.Tiers = params.Tiers
			}
			m.products[i] = p
			return p, nil
		}
	}
	return domain.Product{}, apperr.NotFound(productNotFoundMessage)
}

// Delete removes a product.
func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound(productNotFoundMessage)
}
