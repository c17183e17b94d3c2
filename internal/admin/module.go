package admin

import (
	"github.com/gin-gonic/gin"

	apphttp "storefront_backend/internal/http"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module is the admin auth module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates the admin auth module.
func NewModule(cfg config.AdminConfig, val *validator.Validator, log *logger.Logger) *Module {
	service := NewService(cfg, log)
	return &Module{service: service, handler: NewHandler(service, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "admin" }

// Guard returns the middleware the router mounts on the admin group.
func (m *Module) Guard() gin.HandlerFunc {
	return RequireAdmin(m.service)
}

// RegisterRoutes mounts the login endpoint behind the stricter limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/login", ctx.LoginRateLimiter, m.handler.Login)
}

var _ apphttp.Module = (*Module)(nil)
