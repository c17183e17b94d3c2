package orders

import (
	"github.com/gin-gonic/gin"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/httpkit"
)

// OrderLineResponse is one order line in the admin API.
type OrderLineResponse struct {
	ProductCode string `json:"productCode"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitCents   int64  `json:"unitCents"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse is the order representation in the admin API.
type OrderResponse struct {
	ID         string              `json:"id"`
	Reference  string              `json:"reference"`
	Email      string              `json:"email,omitempty"`
	TotalCents int64               `json:"totalCents"`
	Total      string              `json:"total"`
	CreatedAt  string              `json:"createdAt"`
	Lines      []OrderLineResponse `json:"lines,omitempty"`
}

// Handler serves the order admin API.
type Handler struct {
	service *Service
}

// NewHandler creates a new orders handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListOrders returns all captured orders.
// GET /api/v1/admin/orders
func (h *Handler) ListOrders(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	items := make([]OrderResponse, 0, len(result))
	for _, order := range result {
		items = append(items, toOrderResponse(order))
	}
	httpkit.OK(c, gin.H{"items": items, "total": len(items)})
}

// GetOrder returns one order with its lines.
// GET /api/v1/admin/orders/:reference
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toOrderResponse(order))
}

func toOrderResponse(order Order) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID.String(),
		Reference:  order.Reference,
		Email:      order.Email,
		TotalCents: order.TotalCents,
		Total:      domain.FormatCents(order.TotalCents),
		CreatedAt:  order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ProductCode: line.ProductCode,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitCents:   line.UnitCents,
			Subtotal:    domain.FormatCents(line.SubtotalCents()),
		})
	}
	return resp
}
