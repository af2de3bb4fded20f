package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, customer_id, status, subtotal_cents, tax_cents, shipping_cents, total_cents, shipping_address_id::text, billing_address_id::text, checkout_session_id, payment_intent_id, created_at`

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (customer_id, status, subtotal_cents, tax_cents, shipping_cents, total_cents, shipping_address_id, billing_address_id, checkout_session_id, payment_intent_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, created_at
`
	created := *o
	err = tx.QueryRow(ctx, insertOrder,
		o.CustomerID,
		o.Status,
		o.SubtotalCents,
		o.TaxCents,
		o.ShippingCents,
		o.TotalCents,
		o.ShippingAddressID,
		o.BillingAddressID,
		o.CheckoutSessionID,
		o.PaymentIntentID,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("checkout_session_id", o.CheckoutSessionID).Msg("order repo: insert order")
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	created.Items = make([]domain.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.OrderID = created.ID
		if err := tx.QueryRow(ctx, insertItem, created.ID, item.ProductID, item.ProductName, item.UnitPriceCents, item.Quantity).Scan(&item.ID); err != nil {
			r.logger.Error().Err(err).Str("order_id", created.ID).Str("product_id", item.ProductID).Msg("order repo: insert item")
			return nil, err
		}
		created.Items[i] = item
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := r.fetchOrder(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("order repo: list")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) MarkProcessingBySession(ctx context.Context, checkoutSessionID, paymentIntentID string) error {
	const q = `
UPDATE orders
SET status = $1,
    payment_intent_id = COALESCE(payment_intent_id, NULLIF($2, ''))
WHERE checkout_session_id = $3 AND status = $4
`
	cmd, err := r.pool.Exec(ctx, q, domain.StatusProcessing, paymentIntentID, checkoutSessionID, domain.StatusPending)
	if err != nil {
		r.logger.Error().Err(err).Str("checkout_session_id", checkoutSessionID).Msg("order repo: mark processing by session")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.checkExists(ctx, `SELECT status FROM orders WHERE checkout_session_id = $1`, checkoutSessionID)
	}
	return nil
}

func (r *postgresRepo) MarkProcessingByIntent(ctx context.Context, paymentIntentID string) error {
	const q = `
UPDATE orders
SET status = $1
WHERE payment_intent_id = $2 AND status = $3
`
	cmd, err := r.pool.Exec(ctx, q, domain.StatusProcessing, paymentIntentID, domain.StatusPending)
	if err != nil {
		r.logger.Error().Err(err).Str("payment_intent_id", paymentIntentID).Msg("order repo: mark processing by intent")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.checkExists(ctx, `SELECT status FROM orders WHERE payment_intent_id = $1`, paymentIntentID)
	}
	return nil
}

// checkExists distinguishes an already-transitioned order (no-op, the event
// was re-delivered) from a missing one (ErrNotFound, caller decides).
func (r *postgresRepo) checkExists(ctx context.Context, q, key string) error {
	var status domain.OrderStatus
	err := r.pool.QueryRow(ctx, q, key).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, arg any) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, q, arg)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id::text, order_id::text, product_id::text, product_name, unit_price_cents, quantity
FROM order_items
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Status,
		&o.SubtotalCents,
		&o.TaxCents,
		&o.ShippingCents,
		&o.TotalCents,
		&o.ShippingAddressID,
		&o.BillingAddressID,
		&o.CheckoutSessionID,
		&o.PaymentIntentID,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
