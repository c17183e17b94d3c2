// Package storepage renders virtual commerce pages (product detail, cart,
// checkout, EULA) as children of a single store page, without a page-tree
// node per product. A classifier maps the request path to a page type and
// a tag evaluator expands the shopping markup against that classification.
package storepage

import (
	"context"
	"strings"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/apperr"
)

// PageType classifies what a request path under the store page addresses.
type PageType int

const (
	PageOrdinary PageType = iota
	PageProduct
	PageCart
	PageCheckout
	PageEula
)

func (t PageType) String() string {
	switch t {
	case PageProduct:
		return "product"
	case PageCart:
		return "cart"
	case PageCheckout:
		return "checkout"
	case PageEula:
		return "eula"
	default:
		return "ordinary"
	}
}

// Classification is the result of classifying one request path.
type Classification struct {
	Type    PageType
	Product *domain.Product
}

// CatalogFinder resolves products for classification and iteration.
type CatalogFinder interface {
	FindByCode(ctx context.Context, code string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
}

// Classifier decides whether a request path names a virtual child of a
// store page and loads the backing product when it does.
type Classifier struct {
	catalog CatalogFinder
}

// NewClassifier creates a classifier over the given catalog.
func NewClassifier(catalog CatalogFinder) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify maps requestPath to a page type relative to the store page at
// ownPath. Paths that are not a direct child of ownPath are ordinary
// content. The trailing segment of a direct child is matched against the
// cart/checkout/eula pseudo-pages first and looked up as a product code
// otherwise; an unknown code falls through to ordinary content.
//
// Note the segment is extracted relative to parentPath, not ownPath. A
// store page nested more than one level below its parent therefore never
// classifies its children. This mirrors long-standing behavior that pages
// in the wild depend on; TestClassifyDeepNestedStorePage pins it down.
func (c *Classifier) Classify(ctx context.Context, requestPath, ownPath string, parentPath *string) (Classification, error) {
	if !isDirectChild(requestPath, ownPath) {
		return Classification{Type: PageOrdinary}, nil
	}
	segment, ok := trailingSegmentAfter(requestPath, parentPath)
	if !ok {
		return Classification{Type: PageOrdinary}, nil
	}

	switch segment {
	case "cart":
		return Classification{Type: PageCart}, nil
	case "checkout":
		return Classification{Type: PageCheckout}, nil
	case "eula":
		return Classification{Type: PageEula}, nil
	}

	product, err := c.catalog.FindByCode(ctx, segment)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return Classification{Type: PageOrdinary}, nil
		}
		return Classification{}, err
	}
	return Classification{Type: PageProduct, Product: &product}, nil
}

// isDirectChild reports whether path is ownPath plus exactly one extra
// segment, with an optional trailing slash.
func isDirectChild(path, ownPath string) bool {
	base := strings.TrimSuffix(ownPath, "/")
	rest, found := strings.CutPrefix(path, base+"/")
	if !found {
		return false
	}
	rest = strings.TrimSuffix(rest, "/")
	return rest != "" && !strings.Contains(rest, "/")
}

// trailingSegmentAfter returns the final path segment, provided the
// parent path immediately precedes it. A nil parent imposes no prefix
// requirement.
func trailingSegmentAfter(path string, parentPath *string) (string, bool) {
	trimmed := strings.TrimSuffix(path, "/")
	slash := strings.LastIndexByte(trimmed, '/')
	if slash < 0 {
		return "", false
	}
	segment := trimmed[slash+1:]
	if segment == "" {
		return "", false
	}
	if parentPath == nil {
		return segment, true
	}
	prefix := strings.TrimSuffix(*parentPath, "/") + "/"
	if !strings.HasSuffix(trimmed[:slash+1], prefix) {
		return "", false
	}
	return segment, true
}
