// Package email delivers transactional mail for the storefront.
package email

import "context"

const subjectOrderConfirmationFmt = "Order confirmation %s"

// OrderConfirmation is the data rendered into the confirmation email.
type OrderConfirmation struct {
	Reference string
	Total     string
}

// Sender delivers storefront email.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, data OrderConfirmation) error
}

// NoopSender is used when email delivery is disabled; it drops mail
// silently so the rest of the pipeline behaves identically.
type NoopSender struct{}

// SendOrderConfirmation does nothing.
func (NoopSender) SendOrderConfirmation(context.Context, string, OrderConfirmation) error {
	return nil
}
