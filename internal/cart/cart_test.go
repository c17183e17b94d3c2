package cart

import (
	"testing"

	"storefront_backend/internal/catalog/domain"
)

func product(code string, unitCents int64) domain.Product {
	return domain.Product{
		Code:        code,
		Description: code + " description",
		Tiers:       []domain.PriceTier{{MinQuantity: 1, UnitCents: unitCents}},
	}
}

func TestAddOrUpdate_ReplacesQuantityForSameCode(t *testing.T) {
	var c Cart
	p := product("WIDGET", 300)

	c.AddOrUpdate(p, 2)
	c.AddOrUpdate(p, 5)

	if c.Len() != 1 {
		t.Fatalf("expected one line, got %d", c.Len())
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected latest quantity 5, got %d", c.Lines[0].Quantity)
	}
}

func TestAddOrUpdate_PreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.AddOrUpdate(product("B", 100), 1)
	c.AddOrUpdate(product("A", 100), 1)
	c.AddOrUpdate(product("B", 100), 3)

	if c.Len() != 2 {
		t.Fatalf("expected two lines, got %d", c.Len())
	}
	if c.Lines[0].Product.Code != "B" || c.Lines[1].Product.Code != "A" {
		t.Fatalf("unexpected order: %s, %s", c.Lines[0].Product.Code, c.Lines[1].Product.Code)
	}
}

func TestTotalCents_SumsTieredSubtotals(t *testing.T) {
	var c Cart
	tiered := domain.Product{
		Code: "BULK",
		Tiers: []domain.PriceTier{
			{MinQuantity: 1, UnitCents: 300},
			{MinQuantity: 10, UnitCents: 250},
		},
	}
	c.AddOrUpdate(tiered, 10)
	c.AddOrUpdate(product("WIDGET", 100), 2)

	// 10 * 250 + 2 * 100
	if got := c.TotalCents(); got != 2700 {
		t.Fatalf("TotalCents() = %d, want 2700", got)
	}
}

func TestSetQuantity_NonPositiveRemovesLine(t *testing.T) {
	var c Cart
	c.AddOrUpdate(product("WIDGET", 300), 2)

	c.SetQuantity("WIDGET", 0)
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}

	c.AddOrUpdate(product("WIDGET", 300), 2)
	c.AddOrUpdate(product("WIDGET", 300), -1)
	if c.Len() != 0 {
		t.Fatalf("expected empty cart after negative add, got %d lines", c.Len())
	}
}

func TestSetQuantity_UnknownCodeIsNoOp(t *testing.T) {
	var c Cart
	c.AddOrUpdate(product("WIDGET", 300), 2)
	c.SetQuantity("OTHER", 7)

	if c.Len() != 1 || c.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart state: %+v", c.Lines)
	}
}

func TestRemoveAndEmpty(t *testing.T) {
	var c Cart
	c.AddOrUpdate(product("A", 100), 1)
	c.AddOrUpdate(product("B", 100), 1)

	c.Remove("A")
	if c.Len() != 1 || c.Lines[0].Product.Code != "B" {
		t.Fatalf("unexpected cart after remove: %+v", c.Lines)
	}

	c.Empty()
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
	if c.TotalCents() != 0 {
		t.Fatalf("expected zero total, got %d", c.TotalCents())
	}
}
