package orders

import (
	"context"

	"storefront_backend/internal/events"
	"storefront_backend/platform/logger"
)

// ConfirmationListener reacts to order.placed events by queueing the
// confirmation email. It runs on the event bus, off the checkout request;
// a failed enqueue never reaches the shopper, the order is already
// captured and the email is recoverable from the admin surface.
type ConfirmationListener struct {
	confirmations ConfirmationEnqueuer
	log           *logger.Logger
}

// NewConfirmationListener creates the listener over the given enqueuer.
func NewConfirmationListener(confirmations ConfirmationEnqueuer, log *logger.Logger) *ConfirmationListener {
	return &ConfirmationListener{confirmations: confirmations, log: log}
}

// Handle enqueues a confirmation for order.placed events that carry an
// email address. Other events and address-less orders (express purchases)
// are ignored.
func (l *ConfirmationListener) Handle(ctx context.Context, event events.Event) error {
	placed, ok := event.(events.OrderPlaced)
	if !ok || placed.Email == "" {
		return nil
	}
	if err := l.confirmations.EnqueueOrderConfirmation(ctx, placed.OrderID, placed.Reference, placed.Email, placed.TotalCents); err != nil {
		l.log.Warn("failed to enqueue order confirmation", "reference", placed.Reference, "error", err)
		return err
	}
	l.log.Info("order confirmation enqueued", "reference", placed.Reference)
	return nil
}

var _ events.Handler = (*ConfirmationListener)(nil)
