package cart

import (
	"context"

	"storefront_backend/internal/session"
)

// sessionKey is the session field the cart is stored under.
const sessionKey = "cart"

// formErrorsKey is the session field holding flash-style validation errors
// surfaced by the shopping:form_errors tag on the next render.
const formErrorsKey = "form_errors"

// Manager loads and saves carts against the session store.
type Manager struct{}

// NewManager creates a cart manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetOrCreate returns the session's cart, creating an empty one when the
// session has none. The empty cart is not persisted until the first Save;
// reading a cart never mutates the session.
func (m *Manager) GetOrCreate(ctx context.Context, sess *session.Session) (*Cart, error) {
	var c Cart
	if _, err := sess.Get(ctx, sessionKey, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save persists the cart to the session.
func (m *Manager) Save(ctx context.Context, sess *session.Session, c *Cart) error {
	return sess.Set(ctx, sessionKey, c)
}

// SetFormErrors stores a validation message to be consumed by the next render.
func (m *Manager) SetFormErrors(ctx context.Context, sess *session.Session, message string) error {
	return sess.Set(ctx, formErrorsKey, message)
}

// PopFormErrors consumes the pending validation message, if any.
func (m *Manager) PopFormErrors(ctx context.Context, sess *session.Session) (string, error) {
	return sess.PopString(ctx, formErrorsKey)
}
