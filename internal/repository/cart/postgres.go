package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

const cartColumns = `id::text, session_token, customer_id, created_at`

func (r *postgresRepo) GetOrCreate(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	cart, err := r.getByToken(ctx, sessionToken)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	const insert = `
INSERT INTO carts (session_token)
VALUES ($1)
RETURNING ` + cartColumns + `
`
	var created domain.Cart
	err = r.pool.QueryRow(ctx, insert, sessionToken).Scan(
		&created.ID,
		&created.SessionToken,
		&created.CustomerID,
		&created.CreatedAt,
	)
	if err != nil {
		// Two requests raced on the first add for the same token; the
		// unique constraint on session_token lets exactly one insert win.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r.getByToken(ctx, sessionToken)
		}
		r.logger.Error().Err(err).Msg("cart repo: create")
		return nil, err
	}
	created.Lines = []domain.CartLine{}
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) getByToken(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE session_token = $1
`
	return r.fetchCart(ctx, q, sessionToken)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID, productID string, quantity int) error {
	// The unique constraint on (cart_id, product_id) makes the upsert
	// atomic: concurrent adds of the same product increment one row.
	const q = `
INSERT INTO cart_lines (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, cartID, productID, quantity); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Str("product_id", productID).Msg("cart repo: add line")
		return err
	}
	return nil
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	// Line ids come straight from the request path.
	if uuid.Validate(lineID) != nil {
		return domain.ErrNotFound
	}
	const q = `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2 AND cart_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, quantity, lineID, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Str("line_id", lineID).Msg("cart repo: set quantity")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	if uuid.Validate(lineID) != nil {
		return domain.ErrNotFound
	}
	const q = `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`
	cmd, err := r.pool.Exec(ctx, q, lineID, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Str("line_id", lineID).Msg("cart repo: remove line")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	// Cart ids reach this from webhook metadata, which may carry
	// anything; a non-uuid can only refer to a cart that never existed.
	if uuid.Validate(cartID) != nil {
		return nil
	}
	// Cascade removes the lines. Zero rows means the cart was already
	// cleared by an earlier delivery of the same event; not an error.
	const q = `DELETE FROM carts WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("cart repo: clear")
		return err
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, arg any) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, arg).Scan(
		&cart.ID,
		&cart.SessionToken,
		&cart.CustomerID,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, quantity, created_at, updated_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Lines = []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
