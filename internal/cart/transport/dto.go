// Package transport defines the cart HTTP request shapes. Cart mutations
// arrive as HTML form posts from the generated fragments, so everything
// binds from form fields rather than JSON.
package transport

// AddToCartRequest adds a product or replaces its quantity. Quantity is
// deliberately unconstrained: a non-positive value removes the line, so
// zero must bind and validate.
type AddToCartRequest struct {
	Code     string `form:"code" validate:"required"`
	Quantity int    `form:"quantity"`
}

// ExpressPurchaseRequest places an immediate order for one product.
type ExpressPurchaseRequest struct {
	Code     string `form:"code" validate:"required"`
	Quantity int    `form:"quantity" validate:"required,min=1"`
	NextURL  string `form:"next_url"`
}

// CheckoutRequest captures the session cart as an order.
type CheckoutRequest struct {
	Email   string `form:"email" validate:"required,email"`
	NextURL string `form:"next_url"`
}
