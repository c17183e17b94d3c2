// Package transport defines the catalog HTTP request and response shapes.
package transport

// PriceTierPayload is a quantity break in requests and responses.
type PriceTierPayload struct {
	MinQuantity int   `json:"minQuantity" validate:"required,min=1"`
	UnitCents   int64 `json:"unitCents" validate:"required,min=0"`
}

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	Code        string             `json:"code" validate:"required,max=64,excludesall= /"`
	Description string             `json:"description" validate:"required,max=2000"`
	Tiers       []PriceTierPayload `json:"tiers" validate:"required,min=1,dive"`
}

// UpdateProductRequest updates a catalog product. Omitted fields are left
// unchanged; providing tiers replaces the whole tier set.
type UpdateProductRequest struct {
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Tiers       []PriceTierPayload `json:"tiers" validate:"omitempty,min=1,dive"`
}

// ProductResponse is the catalog product representation.
type ProductResponse struct {
	ID          string             `json:"id"`
	Code        string             `json:"code"`
	Description string             `json:"description"`
	Tiers       []PriceTierPayload `json:"tiers"`
}

// ProductListResponse wraps a product listing.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
