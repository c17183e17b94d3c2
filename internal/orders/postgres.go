package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront_backend/platform/apperr"
)

const orderNotFoundMessage = "order not found"

// Repo is the Postgres order repository.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new Postgres order repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create stores the order and its lines in one transaction.
func (r *Repo) Create(ctx context.Context, order Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, reference, session_id, email, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.Reference, order.SessionID, order.Email, order.TotalCents, order.CreatedAt)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to insert order", err)
	}

	for i, line := range order.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, position, product_code, description, quantity, unit_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, line.ProductCode, line.Description, line.Quantity, line.UnitCents)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to insert order line", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to commit order", err)
	}
	return nil
}

// GetByReference retrieves one order with its lines.
func (r *Repo) GetByReference(ctx context.Context, reference string) (Order, error) {
	var order Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, reference, session_id, email, total_cents, created_at
		FROM orders WHERE reference = $1`, reference).
		Scan(&order.ID, &order.Reference, &order.SessionID, &order.Email, &order.TotalCents, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, apperr.Wrap(apperr.KindInternal, "failed to query order", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_code, description, quantity, unit_cents
		FROM order_lines WHERE order_id = $1 ORDER BY position`, order.ID)
	if err != nil {
		return Order{}, apperr.Wrap(apperr.KindInternal, "failed to query order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line OrderLine
		if err := rows.Scan(&line.ProductCode, &line.Description, &line.Quantity, &line.UnitCents); err != nil {
			return Order{}, apperr.Wrap(apperr.KindInternal, "failed to scan order line", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return Order{}, apperr.Wrap(apperr.KindInternal, "failed to read order lines", err)
	}
	return order, nil
}

// List returns all orders, newest first, without lines.
func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, reference, session_id, email, total_cents, created_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to query orders", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.Reference, &order.SessionID, &order.Email, &order.TotalCents, &order.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan order", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read orders", err)
	}
	return result, nil
}
