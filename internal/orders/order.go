// Package orders captures checkout and express purchases as immutable
// order records. Line items snapshot the product code, description, and
// unit price at purchase time, so later catalog edits never rewrite an
// order's history.
package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderLine is one purchased product, priced at capture time.
type OrderLine struct {
	ProductCode string
	Description string
	Quantity    int
	UnitCents   int64
}

// SubtotalCents returns the line's extended price.
func (l OrderLine) SubtotalCents() int64 {
	return l.UnitCents * int64(l.Quantity)
}

// Order is a captured purchase.
type Order struct {
	ID         uuid.UUID
	Reference  string
	SessionID  string
	Email      string
	TotalCents int64
	CreatedAt  time.Time
	Lines      []OrderLine
}

// NewReference generates a human-quotable order reference.
func NewReference() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// Repository persists orders.
type Repository interface {
	// Create stores the order with its lines.
	Create(ctx context.Context, order Order) error
	// GetByReference retrieves one order with its lines.
	GetByReference(ctx context.Context, reference string) (Order, error)
	// List returns all orders, newest first, without lines.
	List(ctx context.Context) ([]Order, error)
}
