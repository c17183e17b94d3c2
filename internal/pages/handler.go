package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/validator"
)

// CreatePageRequest creates a content or store page.
type CreatePageRequest struct {
	Slug       string            `json:"slug" validate:"required,max=128,excludesall= /"`
	ParentID   *string           `json:"parentId" validate:"omitempty,uuid"`
	Kind       string            `json:"kind" validate:"required,oneof=content store"`
	Title      string            `json:"title" validate:"required,max=256"`
	LayoutName string            `json:"layoutName" validate:"required,max=128"`
	Parts      map[string]string `json:"parts"`
}

// SetPartRequest creates or replaces one named part of a page.
type SetPartRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Content string `json:"content" validate:"required"`
}

// SaveLayoutRequest creates or replaces a layout.
type SaveLayoutRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Content string `json:"content" validate:"required"`
}

// PageResponse is the page representation for the admin API.
type PageResponse struct {
	ID         string            `json:"id"`
	Slug       string            `json:"slug"`
	Path       string            `json:"path"`
	ParentPath *string           `json:"parentPath,omitempty"`
	Kind       string            `json:"kind"`
	Title      string            `json:"title"`
	LayoutName string            `json:"layoutName"`
	Parts      map[string]string `json:"parts,omitempty"`
}

// Handler handles the page tree admin API.
type Handler struct {
	repo Repository
	val  *validator.Validator
}

// NewHandler creates a new pages handler.
func NewHandler(repo Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// ListPages returns all pages.
// GET /api/v1/admin/pages
func (h *Handler) ListPages(c *gin.Context) {
	result, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]PageResponse, 0, len(result))
	for _, page := range result {
		items = append(items, toPageResponse(page))
	}
	httpkit.OK(c, gin.H{"items": items, "total": len(items)})
}

// CreatePage creates a page with its parts.
// POST /api/v1/admin/pages
func (h *Handler) CreatePage(c *gin.Context) {
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	params := CreatePageParams{
		Slug:       req.Slug,
		Kind:       req.Kind,
		Title:      req.Title,
		LayoutName: req.LayoutName,
		Parts:      req.Parts,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid parent id", nil)
			return
		}
		params.ParentID = &parentID
	}

	page, err := h.repo.Create(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toPageResponse(page))
}

// SetPart creates or replaces one named part.
// PUT /api/v1/admin/pages/:id/parts
func (h *Handler) SetPart(c *gin.Context) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid page id", nil)
		return
	}

	var req SetPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if httpkit.HandleError(c, h.repo.SetPart(c.Request.Context(), pageID, req.Name, req.Content)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveLayout creates or replaces a layout.
// PUT /api/v1/admin/layouts
func (h *Handler) SaveLayout(c *gin.Context) {
	var req SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	layout, err := h.repo.SaveLayout(c.Request.Context(), req.Name, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"id": layout.ID.String(), "name": layout.Name})
}

func toPageResponse(page Page) PageResponse {
	return PageResponse{
		ID:         page.ID.String(),
		Slug:       page.Slug,
		Path:       page.Path,
		ParentPath: page.ParentPath,
		Kind:       page.Kind,
		Title:      page.Title,
		LayoutName: page.LayoutName,
		Parts:      page.Parts,
	}
}
