// Package domain holds the catalog domain model shared by the repository,
// service, and the store page renderer.
package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// PriceTier is a quantity break: the unit price that applies once the
// requested quantity reaches MinQuantity.
type PriceTier struct {
	MinQuantity int   `json:"minQuantity"`
	UnitCents   int64 `json:"unitCents"`
}

// Product is a sellable catalog entry. Code is the stable identifier used
// in URLs; it never changes once published.
type Product struct {
	ID          uuid.UUID   `json:"id"`
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Tiers       []PriceTier `json:"tiers"`
}

// PriceForQuantity returns the unit price in cents for the requested
// quantity. Tiers are evaluated as quantity breaks: the tier with the
// highest MinQuantity not exceeding the quantity wins. A product always
// carries at least one tier (MinQuantity 1, the base price); quantities
// below every tier fall back to the lowest tier.
func (p Product) PriceForQuantity(quantity int) int64 {
	if len(p.Tiers) == 0 {
		return 0
	}

	tiers := make([]PriceTier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinQuantity < tiers[j].MinQuantity })

	price := tiers[0].UnitCents
	for _, t := range tiers {
		if quantity >= t.MinQuantity {
			price = t.UnitCents
		}
	}
	return price
}

// FormatCents renders a cent amount with exactly two decimal digits,
// the presentation contract for all monetary output.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatCentsWide renders a cent amount padded to a minimum width of four
// characters with two decimal digits, matching the cart line item
// presentation.
func FormatCentsWide(cents int64) string {
	return fmt.Sprintf("%4s", FormatCents(cents))
}
