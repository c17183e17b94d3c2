package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/platform/apperr"
)

const productNotFoundMessage = "product not found"

// Repo implements the catalog repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByCode retrieves a product by its stable code.
func (r *Repo) GetByCode(ctx context.Context, code string) (domain.Product, error) {
	query := `
		SELECT id, code, description
		FROM catalog_products
		WHERE code = $1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&product.ID, &product.Code, &product.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return domain.Product{}, fmt.Errorf("get product by code: %w", err)
	}

	tiers, err := r.tiersFor(ctx, product.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product.Tiers = tiers
	return product, nil
}

// GetByID retrieves a product by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	query := `
		SELECT id, code, description
		FROM catalog_products
		WHERE id = $1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.Code, &product.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return domain.Product{}, fmt.Errorf("get product by id: %w", err)
	}

	tiers, err := r.tiersFor(ctx, product.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product.Tiers = tiers
	return product, nil
}

// List retrieves all products in creation order.
func (r *Repo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.code, p.description, t.min_quantity, t.unit_cents
		FROM catalog_products p
		LEFT JOIN catalog_price_tiers t ON t.product_id = p.id
		ORDER BY p.created_at, p.id, t.min_quantity`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			p           domain.Product
			minQuantity *int
			unitCents   *int64
		)
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &minQuantity, &unitCents); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		pos, seen := index[p.ID]
		if !seen {
			pos = len(products)
			index[p.ID] = pos
			products = append(products, p)
		}
		if minQuantity != nil && unitCents != nil {
			products[pos].Tiers = append(products[pos].Tiers, domain.PriceTier{
				MinQuantity: *minQuantity,
				UnitCents:   *unitCents,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// Create inserts a product with its price tiers.
func (r *Repo) Create(ctx context.Context, params CreateProductParams) (domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO catalog_products (code, description)
		VALUES ($1, $2)
		RETURNING id, code, description`

	var product domain.Product
	if err := tx.QueryRow(ctx, query, params.Code, params.Description).Scan(
		&product.ID, &product.Code, &product.Description,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, apperr.Conflict("product code already exists")
		}
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	if err := insertTiers(ctx, tx, product.ID, params.Tiers); err != nil {
		return domain.Product{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	product.Tiers = params.Tiers
	return product, nil
}

// Update mutates a product and optionally replaces its tiers.
func (r *Repo) Update(ctx context.Context, params UpdateProductParams) (domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE catalog_products
		SET description = COALESCE($2, description),
			updated_at = now()
		WHERE id = $1
		RETURNING id, code, description`

	var product domain.Product
	if err := tx.QueryRow(ctx, query, params.ID, params.Description).Scan(
		&product.ID, &product.Code, &product.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	if params.Tiers != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_price_tiers WHERE product_id = $1`, product.ID); err != nil {
			return domain.Product{}, fmt.Errorf("replace price tiers: %w", err)
		}
		if err := insertTiers(ctx, tx, product.ID, params.Tiers); err != nil {
			return domain.Product{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	tiers, err := r.tiersFor(ctx, product.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product.Tiers = tiers
	return product, nil
}

// Delete removes a product and its tiers (cascade).
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM catalog_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

func (r *Repo) tiersFor(ctx context.Context, productID uuid.UUID) ([]domain.PriceTier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT min_quantity, unit_cents
		FROM catalog_price_tiers
		WHERE product_id = $1
		ORDER BY min_quantity`, productID)
	if err != nil {
		return nil, fmt.Errorf("load price tiers: %w", err)
	}
	defer rows.Close()

	var tiers []domain.PriceTier
	for rows.Next() {
		var t domain.PriceTier
		if err := rows.Scan(&t.MinQuantity, &t.UnitCents); err != nil {
			return nil, fmt.Errorf("scan price tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load price tiers: %w", err)
	}
	return tiers, nil
}

func insertTiers(ctx context.Context, tx pgx.Tx, productID uuid.UUID, tiers []domain.PriceTier) error {
	for _, t := range tiers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO catalog_price_tiers (product_id, min_quantity, unit_cents)
			VALUES ($1, $2, $3)`, productID, t.MinQuantity, t.UnitCents); err != nil {
			return fmt.Errorf("insert price tier: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
