package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog/domain"
	"storefront_backend/internal/events"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

type captureBus struct {
	mu       sync.Mutex
	events   []events.Event
	handlers map[string][]events.Handler
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[string][]events.Handler)
	}
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// deliver synchronously hands every captured event to its subscribers.
func (b *captureBus) deliver(ctx context.Context, t *testing.T) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, event := range b.events {
		for _, h := range b.handlers[event.EventName()] {
			if err := h.Handle(ctx, event); err != nil {
				t.Fatalf("handler for %s: %v", event.EventName(), err)
			}
		}
	}
}

type captureEnqueuer struct {
	references []string
	emails     []string
}

func (e *captureEnqueuer) EnqueueOrderConfirmation(_ context.Context, _ uuid.UUID, reference, email string, _ int64) error {
	e.references = append(e.references, reference)
	e.emails = append(e.emails, email)
	return nil
}

func tieredProduct(code string, unitCents int64) domain.Product {
	return domain.Product{
		ID:          uuid.New(),
		Code:        code,
		Description: code + " description",
		Tiers:       []domain.PriceTier{{MinQuantity: 1, UnitCents: unitCents}},
	}
}

func TestPlaceFromCartCapturesSnapshot(t *testing.T) {
	repo := NewMemory()
	bus := &captureBus{}
	svc := NewService(repo, bus, logger.New("test"))

	c := &cart.Cart{}
	c.AddOrUpdate(tieredProduct("alpha", 300), 2)
	c.AddOrUpdate(tieredProduct("beta", 150), 1)

	reference, err := svc.PlaceFromCart(context.Background(), "sess-1", "shopper@example.com", c)
	if err != nil {
		t.Fatalf("PlaceFromCart: %v", err)
	}

	order, err := repo.GetByReference(context.Background(), reference)
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if order.TotalCents != 750 {
		t.Fatalf("total = %d, want 750", order.TotalCents)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(order.Lines))
	}
	if order.Lines[0].ProductCode != "alpha" || order.Lines[0].Quantity != 2 || order.Lines[0].UnitCents != 300 {
		t.Fatalf("first line = %+v", order.Lines[0])
	}
	if order.Email != "shopper@example.com" {
		t.Fatalf("email = %q", order.Email)
	}

	if len(bus.events) != 1 {
		t.Fatalf("events published = %d, want 1", len(bus.events))
	}
	placed, ok := bus.events[0].(events.OrderPlaced)
	if !ok || placed.Reference != reference {
		t.Fatalf("event = %#v", bus.events[0])
	}
}

func TestPlaceFromCartRejectsEmptyCart(t *testing.T) {
	svc := NewService(NewMemory(), &captureBus{}, logger.New("test"))

	_, err := svc.PlaceFromCart(context.Background(), "sess-1", "shopper@example.com", &cart.Cart{})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestPlaceExpressSingleLineNoEmail(t *testing.T) {
	repo := NewMemory()
	svc := NewService(repo, &captureBus{}, logger.New("test"))

	reference, err := svc.PlaceExpress(context.Background(), "sess-1", cart.Line{
		Product:  tieredProduct("alpha", 300),
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("PlaceExpress: %v", err)
	}

	order, err := repo.GetByReference(context.Background(), reference)
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if order.TotalCents != 900 || len(order.Lines) != 1 {
		t.Fatalf("order = %+v", order)
	}
}

func TestPlaceExpressRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(NewMemory(), &captureBus{}, logger.New("test"))

	_, err := svc.PlaceExpress(context.Background(), "sess-1", cart.Line{
		Product:  tieredProduct("alpha", 300),
		Quantity: 0,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestTieredPricingSnapshotsQuantityPrice(t *testing.T) {
	repo := NewMemory()
	svc := NewService(repo, &captureBus{}, logger.New("test"))

	p := domain.Product{
		ID:   uuid.New(),
		Code: "bulk",
		Tiers: []domain.PriceTier{
			{MinQuantity: 1, UnitCents: 300},
			{MinQuantity: 10, UnitCents: 250},
		},
	}
	c := &cart.Cart{}
	c.AddOrUpdate(p, 10)

	reference, err := svc.PlaceFromCart(context.Background(), "sess-1", "shopper@example.com", c)
	if err != nil {
		t.Fatalf("PlaceFromCart: %v", err)
	}
	order, err := repo.GetByReference(context.Background(), reference)
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if order.Lines[0].UnitCents != 250 || order.TotalCents != 2500 {
		t.Fatalf("tier price not snapshotted: %+v", order)
	}
}
