// Package pages provides the content page tree: pages with named markup
// parts composed into layouts. Store pages are ordinary pages whose kind is
// "store"; the store page module claims their child URLs for virtual
// product, cart, checkout, and eula pages.
package pages

import (
	"context"

	"github.com/google/uuid"
)

// Page kinds.
const (
	KindContent = "content"
	KindStore   = "store"
)

// Well-known part names. A page carries at least a body part; store pages
// usually add product, cart, checkout, and eula parts.
const (
	PartBody     = "body"
	PartProduct  = "product"
	PartCart     = "cart"
	PartCheckout = "checkout"
	PartEula     = "eula"
)

// Page is one node of the content tree.
type Page struct {
	ID         uuid.UUID
	Slug       string
	Path       string
	ParentPath *string
	Kind       string
	Title      string
	LayoutName string
	Parts      map[string]string
}

// Part returns the named part and whether the page has it.
func (p Page) Part(name string) (string, bool) {
	content, ok := p.Parts[name]
	return content, ok
}

// Layout is a reusable page frame. Its content is markup containing a
// single <r:content /> marker where the rendered page part is inserted.
type Layout struct {
	ID      uuid.UUID
	Name    string
	Content string
}

// CreatePageParams contains data for creating a page.
type CreatePageParams struct {
	Slug       string
	ParentID   *uuid.UUID
	Kind       string
	Title      string
	LayoutName string
	Parts      map[string]string
}

// Repository defines page tree persistence operations.
type Repository interface {
	// GetByPath retrieves the page at the exact path, with parts and the
	// parent's path resolved. Absence is reported as apperr.NotFound.
	GetByPath(ctx context.Context, path string) (Page, error)
	// List returns all pages without their parts, in path order.
	List(ctx context.Context) ([]Page, error)
	// Create inserts a page with its parts. The page path is derived from
	// the parent's path and the slug.
	Create(ctx context.Context, params CreatePageParams) (Page, error)
	// SetPart creates or replaces one named part of a page.
	SetPart(ctx context.Context, pageID uuid.UUID, name, content string) error
	// GetLayout retrieves a layout by name.
	GetLayout(ctx context.Context, name string) (Layout, error)
	// SaveLayout creates or replaces a layout by name.
	SaveLayout(ctx context.Context, name, content string) (Layout, error)
}
