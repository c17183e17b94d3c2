package storepage

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/pages"
	"storefront_backend/internal/session"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/httpkit"
	"storefront_backend/platform/logger"
)

// notFoundPagePath is rendered for unresolvable paths when it exists;
// its markup can use shopping:attempted_url to echo the missed URL.
const notFoundPagePath = "/404"

// Handler serves the content page tree. It is mounted as the router's
// no-route fallback: any path no API route claims is resolved against
// the page store, classified, and rendered.
type Handler struct {
	pages      pages.Repository
	classifier *Classifier
	carts      *cart.Manager
	renderer   *Renderer
	log        *logger.Logger
}

// NewHandler creates the page-serving handler.
func NewHandler(repo pages.Repository, classifier *Classifier, carts *cart.Manager, renderer *Renderer, log *logger.Logger) *Handler {
	return &Handler{pages: repo, classifier: classifier, carts: carts, renderer: renderer, log: log}
}

// ServePage resolves the request path to a page, classifies it, and
// renders the result. Cart state makes any two renders of the same URL
// potentially divergent, so responses are never cacheable.
func (h *Handler) ServePage(c *gin.Context) {
	ctx := c.Request.Context()
	path := normalizeRequestPath(c.Request.URL.Path)

	page, cls, err := h.resolve(ctx, path)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			h.serveNotFound(c)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	rc, err := h.buildContext(c, cls)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	rc.PagePath = page.Path
	rc.RequestURI = c.Request.URL.RequestURI()

	out, err := h.renderer.Render(ctx, page, rc)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.HTML(c, http.StatusOK, out)
}

// resolve finds the page backing the request path. A path with no page
// of its own may still be a virtual child of a store page one level up,
// so a miss retries against the parent path before giving up.
func (h *Handler) resolve(ctx context.Context, path string) (pages.Page, Classification, error) {
	page, err := h.pages.GetByPath(ctx, path)
	if err == nil {
		if page.Kind != pages.KindStore {
			return page, Classification{Type: PageOrdinary}, nil
		}
		cls, err := h.classifier.Classify(ctx, path, page.Path, page.ParentPath)
		return page, cls, err
	}
	if apperr.GetKind(err) != apperr.KindNotFound {
		return pages.Page{}, Classification{}, err
	}

	parentPath, ok := parentOf(path)
	if !ok {
		return pages.Page{}, Classification{}, err
	}
	parent, perr := h.pages.GetByPath(ctx, parentPath)
	if perr != nil || parent.Kind != pages.KindStore {
		return pages.Page{}, Classification{}, err
	}
	cls, cerr := h.classifier.Classify(ctx, path, parent.Path, parent.ParentPath)
	if cerr != nil {
		return pages.Page{}, Classification{}, cerr
	}
	if cls.Type == PageOrdinary {
		// The segment matched neither a pseudo-page nor a product code.
		return pages.Page{}, Classification{}, err
	}
	return parent, cls, nil
}

// buildContext loads the session's cart and any pending form errors into
// a fresh render context.
func (h *Handler) buildContext(c *gin.Context, cls Classification) (RenderContext, error) {
	rc := RenderContext{Type: cls.Type, product: cls.Product}

	sess, ok := session.FromContext(c)
	if !ok {
		return rc, apperr.Internal("store page served without a session")
	}
	ctx := c.Request.Context()
	sessionCart, err := h.carts.GetOrCreate(ctx, sess)
	if err != nil {
		return rc, err
	}
	rc.Cart = sessionCart

	formErrs, err := h.carts.PopFormErrors(ctx, sess)
	if err != nil {
		return rc, err
	}
	rc.FormErrors = formErrs
	return rc, nil
}

func (h *Handler) serveNotFound(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := h.pages.GetByPath(ctx, notFoundPagePath)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("<h1>Not Found</h1>"))
		return
	}
	rc, err := h.buildContext(c, Classification{Type: PageOrdinary})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	rc.PagePath = page.Path
	rc.RequestURI = c.Request.URL.RequestURI()

	out, err := h.renderer.Render(ctx, page, rc)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.HTML(c, http.StatusNotFound, out)
}

func normalizeRequestPath(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// parentOf strips the last segment, so /store/widget yields /store.
func parentOf(path string) (string, bool) {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx <= 0 {
		return "", false
	}
	return trimmed[:idx], true
}
