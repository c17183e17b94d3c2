// Package catalog provides the product catalog bounded context module.
package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/internal/catalog/handler"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/service"
	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	return newModule(repo, val, log)
}

// NewModuleWithRepository creates the module over an explicit repository,
// used by tests and fixture-driven development mode.
func NewModuleWithRepository(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	return newModule(repo, val, log)
}

func newModule(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	h := handler.New(svc, val)
	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for use by the store page renderer.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/products", m.handler.ListProducts)
	ctx.V1.GET("/catalog/products/:id", m.handler.GetProductByID)

	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/products", m.handler.CreateProduct)
	adminGroup.PUT("/products/:id", m.handler.UpdateProduct)
	adminGroup.DELETE("/products/:id", m.handler.DeleteProduct)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
