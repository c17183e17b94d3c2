package domain

import "testing"

func tieredProduct() Product {
	return Product{
		Code:        "WIDGET",
		Description: "A widget",
		Tiers: []PriceTier{
			{MinQuantity: 10, UnitCents: 250},
			{MinQuantity: 1, UnitCents: 300},
			{MinQuantity: 50, UnitCents: 200},
		},
	}
}

func TestPriceForQuantity_PicksHighestApplicableTier(t *testing.T) {
	p := tieredProduct()

	cases := []struct {
		quantity int
		want     int64
	}{
		{1, 300},
		{9, 300},
		{10, 250},
		{49, 250},
		{50, 200},
		{500, 200},
	}

	for _, tc := range cases {
		if got := p.PriceForQuantity(tc.quantity); got != tc.want {
			t.Fatalf("PriceForQuantity(%d) = %d, want %d", tc.quantity, got, tc.want)
		}
	}
}

func TestPriceForQuantity_BelowLowestTierFallsBack(t *testing.T) {
	p := Product{Tiers: []PriceTier{{MinQuantity: 5, UnitCents: 100}}}
	if got := p.PriceForQuantity(1); got != 100 {
		t.Fatalf("expected fallback to lowest tier, got %d", got)
	}
}

func TestPriceForQuantity_NoTiers(t *testing.T) {
	if got := (Product{}).PriceForQuantity(3); got != 0 {
		t.Fatalf("expected 0 for product without tiers, got %d", got)
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{300, "3.00"},
		{1050, "10.50"},
		{5, "0.05"},
		{0, "0.00"},
		{-250, "-2.50"},
	}

	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Fatalf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatCentsWide_MinimumWidth(t *testing.T) {
	if got := FormatCentsWide(300); got != "3.00" {
		t.Fatalf("FormatCentsWide(300) = %q, want %q", got, "3.00")
	}
	if got := FormatCentsWide(1050); got != "10.50" {
		t.Fatalf("FormatCentsWide(1050) = %q, want %q", got, "10.50")
	}
}
