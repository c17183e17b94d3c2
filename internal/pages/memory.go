package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"storefront_backend/platform/apperr"
)

// Memory provides an in-memory page repository for tests and fixture-driven
// development mode.
type Memory struct {
	mu      sync.RWMutex
	pages   map[uuid.UUID]Page
	layouts map[string]Layout
}

// NewMemory creates a new in-memory page repository.
func NewMemory() *Memory {
	return &Memory{
		pages:   make(map[uuid.UUID]Page),
		layouts: make(map[string]Layout),
	}
}

var _ Repository = (*Memory)(nil)

// GetByPath retrieves the page at the exact path.
func (m *Memory) GetByPath(ctx context.Context, path string) (Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = normalizePath(path)
	for _, page := range m.pages {
		if page.Path == path {
			return clonePage(page), nil
		}
	}
	return Page{}, apperr.NotFound(pageNotFoundMessage)
}

// List returns all pages in path order.
func (m *Memory) List(ctx context.Context) ([]Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Page, 0, len(m.pages))
	for _, page := range m.pages {
		page.Parts = nil
		result = append(result, page)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// Create inserts a page with its parts.
func (m *Memory) Create(ctx context.Context, params CreatePageParams) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parentPath := ""
	if params.ParentID != nil {
		parent, ok := m.pages[*params.ParentID]
		if !ok {
			return Page{}, apperr.NotFound("parent page not found")
		}
		parentPath = parent.Path
	}

	path := normalizePath(parentPath + "/" + params.Slug)
	for _, page := range m.pages {
		if page.Path == path {
			return Page{}, apperr.Conflict("page path already exists")
		}
	}

	page := Page{
		ID:         uuid.New(),
		Slug:       params.Slug,
		Path:       path,
		Kind:       params.Kind,
		Title:      params.Title,
		LayoutName: params.LayoutName,
		Parts:      params.Parts,
	}
	if parentPath != "" {
		page.ParentPath = &parentPath
	}
	if page.Parts == nil {
		page.Parts = make(map[string]string)
	}
	m.pages[page.ID] = page
	return clonePage(page), nil
}

// SetPart creates or replaces one named part of a page.
func (m *Memory) SetPart(ctx context.Context, pageID uuid.UUID, name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[pageID]
	if !ok {
		return apperr.NotFound(pageNotFoundMessage)
	}
	if page.Parts == nil {
		page.Parts = make(map[string]string)
	}
	page.Parts[name] = content
	m.pages[pageID] = page
	return nil
}

// GetLayout retrieves a layout by name.
func (m *Memory) GetLayout(ctx context.Context, name string) (Layout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	layout, ok := m.layouts[name]
	if !ok {
		return Layout{}, apperr.NotFound(layoutNotFoundMessage)
	}
	return layout, nil
}

// SaveLayout creates or replaces a layout by name.
func (m *Memory) SaveLayout(ctx context.Context, name, content string) (Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	layout, ok := m.layouts[name]
	if !ok {
		layout = Layout{ID: uuid.New(), Name: name}
	}
	layout.Content = content
	m.layouts[name] = layout
	return layout, nil
}

func clonePage(page Page) Page {
	parts := make(map[string]string, len(page.Parts))
	for name, content := range page.Parts {
		parts[name] = content
	}
	page.Parts = parts
	if page.ParentPath != nil {
		parent := *page.ParentPath
		page.ParentPath = &parent
	}
	return page
}
