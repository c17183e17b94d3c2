package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/events"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

// ConfirmationEnqueuer hands confirmation emails to the background worker.
// Implemented by the scheduler module.
type ConfirmationEnqueuer interface {
	EnqueueOrderConfirmation(ctx context.Context, orderID uuid.UUID, reference, email string, totalCents int64) error
}

// Service captures orders from carts and express purchases.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// NewService creates the orders service. Everything downstream of capture
// (confirmation email, auditing) hangs off the order.placed event.
func NewService(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

var _ cart.OrderPlacer = (*Service)(nil)

// PlaceFromCart snapshots the session cart as an order. The caller is
// responsible for emptying the cart afterwards.
func (s *Service) PlaceFromCart(ctx context.Context, sessionID, email string, c *cart.Cart) (string, error) {
	if c == nil || c.Len() == 0 {
		return "", apperr.Validation("cannot place an order from an empty cart")
	}
	lines := make([]OrderLine, 0, c.Len())
	for _, line := range c.Lines {
		lines = append(lines, OrderLine{
			ProductCode: line.Product.Code,
			Description: line.Product.Description,
			Quantity:    line.Quantity,
			UnitCents:   line.UnitCents(),
		})
	}
	return s.place(ctx, sessionID, email, lines)
}

// PlaceExpress captures a single-line order, bypassing the cart.
func (s *Service) PlaceExpress(ctx context.Context, sessionID string, line cart.Line) (string, error) {
	if line.Quantity <= 0 {
		return "", apperr.Validation("express purchase requires a positive quantity")
	}
	return s.place(ctx, sessionID, "", []OrderLine{{
		ProductCode: line.Product.Code,
		Description: line.Product.Description,
		Quantity:    line.Quantity,
		UnitCents:   line.UnitCents(),
	}})
}

// GetByReference retrieves one order.
func (s *Service) GetByReference(ctx context.Context, reference string) (Order, error) {
	return s.repo.GetByReference(ctx, reference)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) place(ctx context.Context, sessionID, email string, lines []OrderLine) (string, error) {
	var total int64
	for _, line := range lines {
		total += line.SubtotalCents()
	}
	order := Order{
		ID:         uuid.New(),
		Reference:  NewReference(),
		SessionID:  sessionID,
		Email:      email,
		TotalCents: total,
		CreatedAt:  time.Now().UTC(),
		Lines:      lines,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return "", err
	}

	s.bus.Publish(ctx, events.OrderPlaced{
		BaseEvent:  events.NewBaseEvent(),
		OrderID:    order.ID,
		Reference:  order.Reference,
		Email:      order.Email,
		TotalCents: order.TotalCents,
	})

	s.log.Info("order placed", "reference", order.Reference, "total_cents", order.TotalCents, "lines", len(order.Lines))
	return order.Reference, nil
}
