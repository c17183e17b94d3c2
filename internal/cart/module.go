package cart

import (
	catalogsvc "storefront_backend/internal/catalog/service"
	"storefront_backend/internal/events"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module is the cart bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	manager *Manager
}

// NewModule creates and initializes the cart module.
func NewModule(catalog *catalogsvc.Service, orders OrderPlacer, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	manager := NewManager()
	h := NewHandler(manager, catalog, orders, bus, val, log)
	return &Module{handler: h, manager: manager}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cart"
}

// Manager returns the cart manager for use by the store page renderer.
func (m *Module) Manager() *Manager {
	return m.manager
}

// RegisterRoutes mounts the cart mutation endpoints. Every route carries the
// session middleware; mutations are meaningless without a shopper session.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Engine.Group("/cart", ctx.Session)
	group.POST("/add", m.handler.Add)
	group.POST("/update", m.handler.Update)
	group.POST("/express", m.handler.Express)
	group.POST("/checkout", m.handler.Checkout)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
