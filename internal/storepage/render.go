package storepage

import (
	"context"
	"strings"

	"storefront_backend/internal/pages"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

// contentMarkers are the layout placeholders the page body replaces.
var contentMarkers = []string{"<r:content />", "<r:content/>"}

// Renderer turns a classified page into markup. The cart page type
// renders only the cart part with no layout, so it can be fetched and
// spliced into another page's DOM; every other type renders the part
// matching the classification composed into the page's layout.
type Renderer struct {
	pages pages.Repository
	eval  *Evaluator
	log   *logger.Logger
}

// NewRenderer creates a renderer over the page store and evaluator.
func NewRenderer(repo pages.Repository, eval *Evaluator, log *logger.Logger) *Renderer {
	return &Renderer{pages: repo, eval: eval, log: log}
}

// Render evaluates the page under the given render context.
func (r *Renderer) Render(ctx context.Context, page pages.Page, rc RenderContext) (string, error) {
	if rc.Type == PageCart {
		// No body fallback here: the output is spliced into the cart
		// container of whatever page fetched it, and a missing cart part
		// must yield an empty fragment, not a second page body.
		source, ok := page.Part(pages.PartCart)
		if !ok {
			return "", nil
		}
		out, err := r.eval.EvaluateString(ctx, rc, source)
		if err != nil {
			r.log.RenderFailure(page.Path, rc.Type.String(), err)
			return "", err
		}
		return out, nil
	}

	body, err := r.renderPart(ctx, page, partNameFor(rc.Type), rc)
	if err != nil {
		return "", err
	}
	return r.composeLayout(ctx, page, body, rc)
}

// renderPart evaluates one named part, falling back to the body part
// when the page does not define it.
func (r *Renderer) renderPart(ctx context.Context, page pages.Page, name string, rc RenderContext) (string, error) {
	source, ok := page.Part(name)
	if !ok && name != pages.PartBody {
		source, ok = page.Part(pages.PartBody)
	}
	if !ok {
		return "", apperr.Internal("page " + page.Path + " has no part " + name + " and no body")
	}
	out, err := r.eval.EvaluateString(ctx, rc, source)
	if err != nil {
		r.log.RenderFailure(page.Path, rc.Type.String(), err)
		return "", err
	}
	return out, nil
}

// composeLayout splices the evaluated body into the page's layout at the
// content marker. The markup around the marker is evaluated too, so
// layouts can carry shopping tags of their own; the body is inserted
// verbatim, never re-evaluated. A page without a layout renders bare.
func (r *Renderer) composeLayout(ctx context.Context, page pages.Page, body string, rc RenderContext) (string, error) {
	if page.LayoutName == "" {
		return body, nil
	}
	layout, err := r.pages.GetLayout(ctx, page.LayoutName)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			r.log.Warn("layout missing, rendering bare page", "layout", page.LayoutName, "path", page.Path)
			return body, nil
		}
		return "", err
	}

	before, after, found := splitOnContentMarker(layout.Content)
	if !found {
		r.log.Warn("layout has no content marker", "layout", page.LayoutName)
		return body, nil
	}
	prefix, err := r.eval.EvaluateString(ctx, rc, before)
	if err != nil {
		return "", err
	}
	suffix, err := r.eval.EvaluateString(ctx, rc, after)
	if err != nil {
		return "", err
	}
	return prefix + body + suffix, nil
}

func splitOnContentMarker(layout string) (before, after string, found bool) {
	for _, marker := range contentMarkers {
		if idx := strings.Index(layout, marker); idx >= 0 {
			return layout[:idx], layout[idx+len(marker):], true
		}
	}
	return "", "", false
}

// partNameFor maps a page type to the part it renders, body by default.
func partNameFor(t PageType) string {
	switch t {
	case PageProduct:
		return pages.PartProduct
	case PageCheckout:
		return pages.PartCheckout
	case PageEula:
		return pages.PartEula
	default:
		return pages.PartBody
	}
}
