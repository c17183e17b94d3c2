// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"storefront_backend/platform/events"
	"storefront_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Cart Domain Events
// =============================================================================

// CartUpdated is published whenever a session's cart changes.
type CartUpdated struct {
	BaseEvent
	SessionID   string `json:"sessionId"`
	Action      string `json:"action"`
	ProductCode string `json:"productCode,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	TotalCents  int64  `json:"totalCents"`
}

func (e CartUpdated) EventName() string { return "cart.updated" }

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderPlaced is published when a checkout or express purchase captures an order.
type OrderPlaced struct {
	BaseEvent
	OrderID    uuid.UUID `json:"orderId"`
	Reference  string    `json:"reference"`
	Email      string    `json:"email,omitempty"`
	TotalCents int64     `json:"totalCents"`
}

func (e OrderPlaced) EventName() string { return "order.placed" }
