package pages

import (
	"github.com/jackc/pgx/v5/pgxpool"

	internalhttp "storefront_backend/internal/http"
	"storefront_backend/platform/validator"
)

// Module bundles the page tree admin API.
type Module struct {
	repo    Repository
	handler *Handler
}

// NewModule creates the pages module backed by Postgres.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepo(pool)
	return &Module{repo: repo, handler: NewHandler(repo, val)}
}

// NewModuleWithRepository creates the pages module with a custom repository.
func NewModuleWithRepository(repo Repository, val *validator.Validator) *Module {
	return &Module{repo: repo, handler: NewHandler(repo, val)}
}

func (m *Module) Name() string { return "pages" }

// Repository exposes the page store for the rendering pipeline.
func (m *Module) Repository() Repository { return m.repo }

func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	admin := ctx.Admin.Group("/pages")
	admin.GET("", m.handler.ListPages)
	admin.POST("", m.handler.CreatePage)
	admin.PUT("/:id/parts", m.handler.SetPart)

	ctx.Admin.PUT("/layouts", m.handler.SaveLayout)
}
