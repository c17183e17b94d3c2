package cart

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/cart/transport"
	catalogsvc "storefront_backend/internal/catalog/service"
	"storefront_backend/internal/events"
	"storefront_backend/internal/session"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Cart mutation endpoints: every endpoint mutates the session cart,
// publishes a cart.updated event, and sends the shopper back where they came
// from. Validation failures are flashed into the session for the
// shopping:form_errors tag to surface on the next render.

// OrderPlacer captures orders at express-purchase and checkout time. It is
// implemented by the orders service and injected by the composition root.
type OrderPlacer interface {
	PlaceFromCart(ctx context.Context, sessionID, email string, c *Cart) (reference string, err error)
	PlaceExpress(ctx context.Context, sessionID string, line Line) (reference string, err error)
}

// Handler handles cart form posts.
type Handler struct {
	carts   *Manager
	catalog *catalogsvc.Service
	orders  OrderPlacer
	bus     events.Bus
	val     *validator.Validator
	log     *logger.Logger
}

// NewHandler creates a new cart handler.
func NewHandler(carts *Manager, catalog *catalogsvc.Service, orders OrderPlacer, bus events.Bus, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{carts: carts, catalog: catalog, orders: orders, bus: bus, val: val, log: log}
}

// Add adds a product to the cart or replaces its quantity.
// POST /cart/add
func (h *Handler) Add(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.Error(c, http.StatusInternalServerError, "session unavailable", nil)
		return
	}

	var req transport.AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flashAndReturn(c, sess, "Quantity must be a number")
		return
	}
	if err := h.val.Struct(req); err != nil {
		h.flashAndReturn(c, sess, "A product code is required")
		return
	}

	product, err := h.catalog.FindByCode(c.Request.Context(), req.Code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			h.flashAndReturn(c, sess, "Unknown product "+req.Code)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	current, err := h.carts.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	current.AddOrUpdate(product, req.Quantity)
	if err := h.carts.Save(c.Request.Context(), sess, current); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.log.CartMutation("add", product.Code, req.Quantity)
	h.publish(c, sess.ID, "add", product.Code, req.Quantity, current)
	h.returnToSender(c)
}

// Update applies the cart form submission: per-line quantity fields, an
// optional remove control, or the empty-cart control.
// POST /cart/update
func (h *Handler) Update(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.Error(c, http.StatusInternalServerError, "session unavailable", nil)
		return
	}

	current, err := h.carts.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	if c.PostForm("empty") != "" {
		current.Empty()
	} else if code := c.PostForm("remove"); code != "" {
		current.Remove(code)
	} else {
		if msg := applyQuantityFields(c, current); msg != "" {
			h.flashAndReturn(c, sess, msg)
			return
		}
	}

	if err := h.carts.Save(c.Request.Context(), sess, current); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.log.CartMutation("update", "", current.Len())
	h.publish(c, sess.ID, "update", "", 0, current)
	h.returnToSender(c)
}

// Express places an immediate order for one product.
// POST /cart/express
func (h *Handler) Express(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.Error(c, http.StatusInternalServerError, "session unavailable", nil)
		return
	}

	var req transport.ExpressPurchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flashAndReturn(c, sess, "Quantity must be a number")
		return
	}
	if err := h.val.Struct(req); err != nil {
		h.flashAndReturn(c, sess, "Product code and a positive quantity are required")
		return
	}

	product, err := h.catalog.FindByCode(c.Request.Context(), req.Code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			h.flashAndReturn(c, sess, "Unknown product "+req.Code)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	reference, err := h.orders.PlaceExpress(c.Request.Context(), sess.ID, Line{Product: product, Quantity: req.Quantity})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.log.Info("express purchase placed", "reference", reference, "code", product.Code)
	if req.NextURL != "" {
		c.Redirect(http.StatusSeeOther, req.NextURL)
		return
	}
	h.returnToSender(c)
}

// Checkout captures the session cart as an order and empties the cart.
// POST /cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		httpkit.Error(c, http.StatusInternalServerError, "session unavailable", nil)
		return
	}

	var req transport.CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flashAndReturn(c, sess, "A valid email address is required")
		return
	}
	if err := h.val.Struct(req); err != nil {
		h.flashAndReturn(c, sess, "A valid email address is required")
		return
	}

	current, err := h.carts.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if current.Len() == 0 {
		h.flashAndReturn(c, sess, "Your cart is empty")
		return
	}

	reference, err := h.orders.PlaceFromCart(c.Request.Context(), sess.ID, req.Email, current)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	current.Empty()
	if err := h.carts.Save(c.Request.Context(), sess, current); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.log.Info("checkout captured", "reference", reference)
	h.publish(c, sess.ID, "checkout", "", 0, current)
	if req.NextURL != "" {
		c.Redirect(http.StatusSeeOther, req.NextURL)
		return
	}
	h.returnToSender(c)
}

func applyQuantityFields(c *gin.Context, current *Cart) string {
	if c.Request.PostForm == nil {
		if err := c.Request.ParseForm(); err != nil {
			return "Malformed form submission"
		}
	}
	for field, values := range c.Request.PostForm {
		code, found := strings.CutPrefix(field, "quantity_")
		if !found || len(values) == 0 {
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			return "Quantity must be a number"
		}
		current.SetQuantity(code, quantity)
	}
	return ""
}

func (h *Handler) publish(c *gin.Context, sessionID, action, code string, quantity int, current *Cart) {
	h.bus.Publish(c.Request.Context(), events.CartUpdated{
		BaseEvent:   events.NewBaseEvent(),
		SessionID:   sessionID,
		Action:      action,
		ProductCode: code,
		Quantity:    quantity,
		TotalCents:  current.TotalCents(),
	})
}

func (h *Handler) flashAndReturn(c *gin.Context, sess *session.Session, message string) {
	if err := h.carts.SetFormErrors(c.Request.Context(), sess, message); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	h.returnToSender(c)
}

func (h *Handler) returnToSender(c *gin.Context) {
	target := c.Request.Referer()
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusSeeOther, target)
}
