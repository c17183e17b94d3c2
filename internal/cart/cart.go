// Package cart provides the shopping cart domain model, its session-backed
// persistence, and the markup fragment builders used by the store page
// renderer.
package cart

import (
	"storefront_backend/internal/catalog/domain"
)

// Line is one product-and-quantity pairing held in a cart. The product is
// snapshotted at add time; line order is insertion order, which is the
// display order.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// UnitCents is the per-unit price for this line's quantity.
func (l Line) UnitCents() int64 {
	return l.Product.PriceForQuantity(l.Quantity)
}

// SubtotalCents is the line's unit price times its quantity.
func (l Line) SubtotalCents() int64 {
	return l.UnitCents() * int64(l.Quantity)
}

// Cart is an ordered sequence of lines. Exactly one cart exists per session;
// it is created lazily on first access and dies with the session.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddOrUpdate sets the quantity for the product, appending a new line when
// the product is not yet in the cart and replacing the quantity (never
// duplicating the line) when it is. A non-positive quantity removes the
// line.
func (c *Cart) AddOrUpdate(product domain.Product, quantity int) {
	if quantity <= 0 {
		c.Remove(product.Code)
		return
	}
	for i, line := range c.Lines {
		if line.Product.Code == product.Code {
			c.Lines[i].Quantity = quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: product, Quantity: quantity})
}

// SetQuantity changes the quantity of an existing line. A non-positive
// quantity removes the line; an unknown code is a no-op.
func (c *Cart) SetQuantity(code string, quantity int) {
	if quantity <= 0 {
		c.Remove(code)
		return
	}
	for i, line := range c.Lines {
		if line.Product.Code == code {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line for the given product code.
func (c *Cart) Remove(code string) {
	for i, line := range c.Lines {
		if line.Product.Code == code {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Empty removes every line.
func (c *Cart) Empty() {
	c.Lines = nil
}

// TotalCents sums the per-line subtotals.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.SubtotalCents()
	}
	return total
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.Lines)
}
