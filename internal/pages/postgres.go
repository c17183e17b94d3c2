package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/platform/apperr"
)

const (
	pageNotFoundMessage   = "page not found"
	layoutNotFoundMessage = "layout not found"
)

// Repo implements the page repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new page repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByPath retrieves the page at the exact path.
func (r *Repo) GetByPath(ctx context.Context, path string) (Page, error) {
	query := `
		SELECT p.id, p.slug, p.path, parent.path, p.kind, p.title, p.layout_name
		FROM pages p
		LEFT JOIN pages parent ON parent.id = p.parent_id
		WHERE p.path = $1`

	var page Page
	if err := r.pool.QueryRow(ctx, query, normalizePath(path)).Scan(
		&page.ID, &page.Slug, &page.Path, &page.ParentPath, &page.Kind, &page.Title, &page.LayoutName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Page{}, apperr.NotFound(pageNotFoundMessage)
		}
		return Page{}, fmt.Errorf("get page by path: %w", err)
	}

	parts, err := r.partsFor(ctx, page.ID)
	if err != nil {
		return Page{}, err
	}
	page.Parts = parts
	return page, nil
}

// List returns all pages without their parts, in path order.
func (r *Repo) List(ctx context.Context) ([]Page, error) {
	query := `
		SELECT p.id, p.slug, p.path, parent.path, p.kind, p.title, p.layout_name
		FROM pages p
		LEFT JOIN pages parent ON parent.id = p.parent_id
		ORDER BY p.path`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var result []Page
	for rows.Next() {
		var page Page
		if err := rows.Scan(
			&page.ID, &page.Slug, &page.Path, &page.ParentPath, &page.Kind, &page.Title, &page.LayoutName,
		); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		result = append(result, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return result, nil
}

// Create inserts a page with its parts.
func (r *Repo) Create(ctx context.Context, params CreatePageParams) (Page, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	defer tx.Rollback(ctx)

	parentPath := ""
	var parentID interface{}
	if params.ParentID != nil {
		parentID = *params.ParentID
		if err := tx.QueryRow(ctx, `SELECT path FROM pages WHERE id = $1`, *params.ParentID).Scan(&parentPath); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Page{}, apperr.NotFound("parent page not found")
			}
			return Page{}, fmt.Errorf("resolve parent page: %w", err)
		}
	}

	path := normalizePath(parentPath + "/" + params.Slug)
	query := `
		INSERT INTO pages (slug, path, parent_id, kind, title, layout_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, slug, path, kind, title, layout_name`

	var page Page
	if err := tx.QueryRow(ctx, query,
		params.Slug, path, parentID, params.Kind, params.Title, params.LayoutName,
	).Scan(&page.ID, &page.Slug, &page.Path, &page.Kind, &page.Title, &page.LayoutName); err != nil {
		if isUniqueViolation(err) {
			return Page{}, apperr.Conflict("page path already exists")
		}
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	if parentPath != "" {
		page.ParentPath = &parentPath
	}

	for name, content := range params.Parts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO page_parts (page_id, name, content)
			VALUES ($1, $2, $3)`, page.ID, name, content); err != nil {
			return Page{}, fmt.Errorf("insert page part: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}

	page.Parts = params.Parts
	return page, nil
}

// SetPart creates or replaces one named part of a page.
func (r *Repo) SetPart(ctx context.Context, pageID uuid.UUID, name, content string) error {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO page_parts (page_id, name, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (page_id, name) DO UPDATE SET content = EXCLUDED.content`,
		pageID, name, content)
	if err != nil {
		return fmt.Errorf("set page part: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(pageNotFoundMessage)
	}
	return nil
}

// GetLayout retrieves a layout by name.
func (r *Repo) GetLayout(ctx context.Context, name string) (Layout, error) {
	var layout Layout
	if err := r.pool.QueryRow(ctx, `
		SELECT id, name, content FROM layouts WHERE name = $1`, name,
	).Scan(&layout.ID, &layout.Name, &layout.Content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Layout{}, apperr.NotFound(layoutNotFoundMessage)
		}
		return Layout{}, fmt.Errorf("get layout: %w", err)
	}
	return layout, nil
}

// SaveLayout creates or replaces a layout by name.
func (r *Repo) SaveLayout(ctx context.Context, name, content string) (Layout, error) {
	var layout Layout
	if err := r.pool.QueryRow(ctx, `
		INSERT INTO layouts (name, content)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content
		RETURNING id, name, content`, name, content,
	).Scan(&layout.ID, &layout.Name, &layout.Content); err != nil {
		return Layout{}, fmt.Errorf("save layout: %w", err)
	}
	return layout, nil
}

func (r *Repo) partsFor(ctx context.Context, pageID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, content FROM page_parts WHERE page_id = $1`, pageID)
	if err != nil {
		return nil, fmt.Errorf("load page parts: %w", err)
	}
	defer rows.Close()

	parts := make(map[string]string)
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, fmt.Errorf("scan page part: %w", err)
		}
		parts[name] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load page parts: %w", err)
	}
	return parts, nil
}

// normalizePath collapses duplicate slashes and trims the trailing slash,
// keeping "/" for the root.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	normalized := "/" + strings.Trim(path, "/")
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}
	return normalized
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
