package storepage

import (
	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/apperr"
)

// RenderContext carries the per-render state tag handlers read: the
// classification, the session's cart, and the fields iterating tags set
// for their subtree. It is passed by value down the evaluation so an
// iteration's bindings vanish when its subtree returns.
type RenderContext struct {
	Type       PageType
	PagePath   string
	RequestURI string
	Cart       *cart.Cart
	FormErrors string

	product  *domain.Product
	cartLine *cart.Line
}

// WithProduct returns a copy with the current product bound.
func (rc RenderContext) WithProduct(p domain.Product) RenderContext {
	rc.product = &p
	return rc
}

// WithCartLine returns a copy with the current cart line bound.
func (rc RenderContext) WithCartLine(line cart.Line) RenderContext {
	rc.cartLine = &line
	return rc
}

// CurrentProduct returns the product in scope. Product tags interpolate
// into URLs, so using one outside a product context fails instead of
// emitting an empty string that would corrupt links.
func (rc RenderContext) CurrentProduct() (domain.Product, error) {
	if rc.product == nil {
		return domain.Product{}, apperr.Internal("tag used outside a product context")
	}
	return *rc.product, nil
}

// CurrentCartLine returns the cart line in scope, failing outside a
// cart item iteration.
func (rc RenderContext) CurrentCartLine() (cart.Line, error) {
	if rc.cartLine == nil {
		return cart.Line{}, apperr.Internal("tag used outside a cart item context")
	}
	return *rc.cartLine, nil
}

// SessionCart returns the cart loaded for this render.
func (rc RenderContext) SessionCart() (*cart.Cart, error) {
	if rc.Cart == nil {
		return nil, apperr.Internal("tag used without a session cart")
	}
	return rc.Cart, nil
}
