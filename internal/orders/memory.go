package orders

import (
	"context"
	"sort"
	"sync"

	"storefront_backend/platform/apperr"
)

// Memory provides an in-memory order repository for tests.
type Memory struct {
	mu     sync.RWMutex
	orders []Order
}

// NewMemory creates a new in-memory order repository.
func NewMemory() *Memory {
	return &Memory{}
}

var _ Repository = (*Memory)(nil)

// Create stores the order.
func (m *Memory) Create(ctx context.Context, order Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.orders {
		if existing.Reference == order.Reference {
			return apperr.Conflict("order reference already exists")
		}
	}
	m.orders = append(m.orders, order)
	return nil
}

// GetByReference retrieves one order with its lines.
func (m *Memory) GetByReference(ctx context.Context, reference string) (Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, order := range m.orders {
		if order.Reference == reference {
			return order, nil
		}
	}
	return Order{}, apperr.NotFound(orderNotFoundMessage)
}

// List returns all orders, newest first, without lines.
func (m *Memory) List(ctx context.Context) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Order, len(m.orders))
	copy(result, m.orders)
	for i := range result {
		result[i].Lines = nil
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
