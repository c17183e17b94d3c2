package storepage

import (
	"storefront_backend/internal/cart"
	internalhttp "storefront_backend/internal/http"
	"storefront_backend/internal/pages"
	"storefront_backend/platform/config"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/logger"
)

// Module wires the store page pipeline: classifier, tag registry,
// evaluator, renderer, and the page-serving handler.
type Module struct {
	handler *Handler
}

// NewModule builds the store page module. Registry validation runs here,
// so a broken tag set stops the process at startup.
func NewModule(repo pages.Repository, catalog CatalogFinder, carts *cart.Manager, cfg config.StoreConfig, log *logger.Logger) (*Module, error) {
	registry, err := NewShoppingRegistry(TagDeps{
		Catalog:      catalog,
		ImageHost:    cfg.GetImageHost(),
		ProcessorURL: cfg.GetProcessorURL(),
	})
	if err != nil {
		return nil, err
	}
	renderer := NewRenderer(repo, NewEvaluator(registry), log)
	classifier := NewClassifier(catalog)
	return &Module{handler: NewHandler(repo, classifier, carts, renderer, log)}, nil
}

func (m *Module) Name() string { return "storepage" }

// RegisterRoutes mounts the page server as the no-route fallback, so it
// serves every path the API groups do not claim.
func (m *Module) RegisterRoutes(ctx *internalhttp.RouterContext) {
	ctx.Engine.NoRoute(ctx.Session, httpkit.NoStore(), m.handler.ServePage)
}
