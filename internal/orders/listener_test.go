package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/events"
	"storefront_backend/platform/logger"
)

func TestConfirmationListenerEnqueuesOnOrderPlaced(t *testing.T) {
	enq := &captureEnqueuer{}
	l := NewConfirmationListener(enq, logger.New("test"))

	err := l.Handle(context.Background(), events.OrderPlaced{
		BaseEvent:  events.NewBaseEvent(),
		OrderID:    uuid.New(),
		Reference:  "ORD-ABC123",
		Email:      "shopper@example.com",
		TotalCents: 750,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(enq.references) != 1 || enq.references[0] != "ORD-ABC123" || enq.emails[0] != "shopper@example.com" {
		t.Fatalf("confirmation not enqueued: %+v", enq)
	}
}

func TestConfirmationListenerSkipsAddresslessOrders(t *testing.T) {
	enq := &captureEnqueuer{}
	l := NewConfirmationListener(enq, logger.New("test"))

	// Express purchases carry no address, so no confirmation is sent.
	err := l.Handle(context.Background(), events.OrderPlaced{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   uuid.New(),
		Reference: "ORD-DEF456",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(enq.references) != 0 {
		t.Fatalf("unexpected confirmation enqueue: %+v", enq)
	}
}

func TestConfirmationListenerIgnoresOtherEvents(t *testing.T) {
	enq := &captureEnqueuer{}
	l := NewConfirmationListener(enq, logger.New("test"))

	if err := l.Handle(context.Background(), events.CartUpdated{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(enq.references) != 0 {
		t.Fatalf("unexpected confirmation enqueue: %+v", enq)
	}
}

// Checkout flows through capture, publish, and the subscribed listener;
// the service never touches the enqueuer directly.
func TestOrderPlacedSubscriptionDrivesConfirmation(t *testing.T) {
	bus := &captureBus{}
	enq := &captureEnqueuer{}
	module := NewModuleWithRepository(NewMemory(), bus, enq, logger.New("test"))

	c := &cart.Cart{}
	c.AddOrUpdate(tieredProduct("alpha", 300), 2)

	reference, err := module.Service().PlaceFromCart(context.Background(), "sess-1", "shopper@example.com", c)
	if err != nil {
		t.Fatalf("PlaceFromCart: %v", err)
	}

	bus.deliver(context.Background(), t)
	if len(enq.references) != 1 || enq.references[0] != reference {
		t.Fatalf("confirmation not driven by subscription: %+v", enq)
	}
}

func TestNilEnqueuerSubscribesNoListener(t *testing.T) {
	bus := &captureBus{}
	NewModuleWithRepository(NewMemory(), bus, nil, logger.New("test"))

	if len(bus.handlers) != 0 {
		t.Fatalf("handlers subscribed with confirmations disabled: %v", bus.handlers)
	}
}
