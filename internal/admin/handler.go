package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/validator"
)

// LoginRequest carries the operator credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler serves admin authentication.
type Handler struct {
	service *Service
	val     *validator.Validator
}

// NewHandler creates a new admin handler.
func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// Login exchanges credentials for a bearer token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"token": token})
}
