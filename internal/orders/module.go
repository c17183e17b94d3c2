package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/internal/events"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/logger"
)

// Module is the orders bounded context module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates the orders module backed by Postgres.
func NewModule(pool *pgxpool.Pool, bus events.Bus, confirmations ConfirmationEnqueuer, log *logger.Logger) *Module {
	return NewModuleWithRepository(NewRepo(pool), bus, confirmations, log)
}

// NewModuleWithRepository creates the orders module with a custom
// repository. confirmations may be nil when email delivery is disabled;
// no listener is subscribed then.
func NewModuleWithRepository(repo Repository, bus events.Bus, confirmations ConfirmationEnqueuer, log *logger.Logger) *Module {
	service := NewService(repo, bus, log)
	if confirmations != nil {
		bus.Subscribe(events.OrderPlaced{}.EventName(), NewConfirmationListener(confirmations, log))
	}
	return &Module{service: service, handler: NewHandler(service)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "orders" }

// Service returns the order service; the cart module places orders
// through it.
func (m *Module) Service() *Service { return m.service }

// RegisterRoutes mounts the order admin API.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin.Group("/orders")
	admin.GET("", m.handler.ListOrders)
	admin.GET("/:reference", m.handler.GetOrder)
}

var _ apphttp.Module = (*Module)(nil)
