package storepage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront_backend/internal/storepage/markup"
	"storefront_backend/platform/apperr"
)

// Kind distinguishes the three tag handler shapes.
type Kind int

const (
	// KindScalar produces one string; children are not evaluated by the
	// walker (a handler may still read them, e.g. checkout:process).
	KindScalar Kind = iota
	// KindBlock expands its children, optionally wrapped or gated.
	KindBlock
	// KindIterating expands its children once per collection element.
	KindIterating
)

// Tag is what a handler receives: the parsed node plus everything needed
// to expand its children under a derived context.
type Tag struct {
	Node *markup.Node

	ctx  context.Context
	rc   RenderContext
	eval *Evaluator
}

// Context returns the render context the tag is evaluated under.
func (t *Tag) Context() RenderContext { return t.rc }

// RequestContext returns the request-scoped context for catalog calls.
func (t *Tag) RequestContext() context.Context { return t.ctx }

// Attr returns the named attribute, "" when absent.
func (t *Tag) Attr(name string) string { return t.Node.Attr(name) }

// AttrDefault returns the named attribute or def when absent or empty.
func (t *Tag) AttrDefault(name, def string) string { return t.Node.AttrDefault(name, def) }

// Expand evaluates the tag's children under the current context.
func (t *Tag) Expand() (string, error) {
	return t.eval.evalNodes(t.ctx, t.rc, t.Node.Children)
}

// ExpandWith evaluates the tag's children under a derived context. The
// binding is scoped to this call; the caller's context is untouched.
func (t *Tag) ExpandWith(rc RenderContext) (string, error) {
	return t.eval.evalNodes(t.ctx, rc, t.Node.Children)
}

// RenderTag resolves and renders another registered tag by name, the way
// expresspurchase resolves img_host.
func (t *Tag) RenderTag(name string) (string, error) {
	return t.eval.evalNodes(t.ctx, t.rc, []*markup.Node{{Name: name}})
}

// TagHandler resolves one tag occurrence to its output.
type TagHandler func(t *Tag) (string, error)

// Definition pairs a handler with its kind. The kind is declarative:
// the walker treats every registered tag uniformly and the registry uses
// it to validate the tag set at startup.
type Definition struct {
	Kind   Kind
	Handle TagHandler
}

// Registry maps colon-namespaced tag names to definitions. It is built
// once at startup and read-only afterwards.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds a registry from the given definitions and validates
// it, so a typo in a tag name fails at startup rather than mid-render.
func NewRegistry(defs map[string]Definition) (*Registry, error) {
	r := &Registry{defs: defs}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Lookup returns the definition for an exact tag name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// validate checks every definition is well formed and every namespaced
// name hangs off a registered parent namespace.
func (r *Registry) validate() error {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := r.defs[name]
		if def.Handle == nil {
			return fmt.Errorf("tag %q has no handler", name)
		}
		if def.Kind != KindScalar && def.Kind != KindBlock && def.Kind != KindIterating {
			return fmt.Errorf("tag %q has invalid kind %d", name, def.Kind)
		}
		if name == "" || strings.Trim(name, ":") != name {
			return fmt.Errorf("malformed tag name %q", name)
		}
		if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
			parent := name[:idx]
			if _, ok := r.defs[parent]; !ok {
				return fmt.Errorf("tag %q has no registered parent %q", name, parent)
			}
		}
	}
	return nil
}

// Evaluator walks a parsed markup tree, dispatching registered tags to
// their handlers and passing everything else through verbatim.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator creates an evaluator over the registry.
func NewEvaluator(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// EvaluateString parses and evaluates one markup source.
func (e *Evaluator) EvaluateString(ctx context.Context, rc RenderContext, source string) (string, error) {
	nodes, err := markup.Parse(source)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "invalid page markup", err)
	}
	return e.evalNodes(ctx, rc, nodes)
}

// evalNodes concatenates the expansion of a node sequence, left to right.
// Each node is visited exactly once; there is no backtracking.
func (e *Evaluator) evalNodes(ctx context.Context, rc RenderContext, nodes []*markup.Node) (string, error) {
	var out strings.Builder
	for _, node := range nodes {
		if node.IsText() {
			out.WriteString(node.Text)
			continue
		}
		def, ok := e.registry.Lookup(node.Name)
		if !ok {
			// Unregistered tags belong to some other engine; pass the
			// original source through untouched.
			out.WriteString(node.Raw)
			continue
		}
		result, err := def.Handle(&Tag{Node: node, ctx: ctx, rc: rc, eval: e})
		if err != nil {
			return "", err
		}
		out.WriteString(result)
	}
	return out.String(), nil
}
