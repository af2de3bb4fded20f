package address

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

const addressColumns = `id::text, customer_id, first_name, last_name, line1, COALESCE(line2, ''), city, state, postal_code, country, COALESCE(phone, ''), is_default, created_at, updated_at`

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Address, error) {
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE customer_id = $1
ORDER BY is_default DESC, created_at DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("address repo: list")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE id = $1
`
	row := r.pool.QueryRow(ctx, q, id)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.CustomerID); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO addresses (customer_id, first_name, last_name, line1, line2, city, state, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11)
RETURNING ` + addressColumns + `
`
	row := tx.QueryRow(ctx, q, a.CustomerID, a.FirstName, a.LastName, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault)
	created, err := scanAddress(row)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", a.CustomerID).Msg("address repo: create")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Address) (*domain.Address, error) {
	if uuid.Validate(a.ID) != nil {
		return nil, domain.ErrNotFound
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.CustomerID); err != nil {
			return nil, err
		}
	}

	const q = `
UPDATE addresses
SET first_name = $1,
    last_name = $2,
    line1 = $3,
    line2 = NULLIF($4, ''),
    city = $5,
    state = $6,
    postal_code = $7,
    country = $8,
    phone = NULLIF($9, ''),
    is_default = $10,
    updated_at = now()
WHERE id = $11 AND customer_id = $12
RETURNING ` + addressColumns + `
`
	row := tx.QueryRow(ctx, q, a.FirstName, a.LastName, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.Phone, a.IsDefault, a.ID, a.CustomerID)
	updated, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("address_id", a.ID).Msg("address repo: update")
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id, customerID string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, domain.ErrNotFound
	}
	const q = `
DELETE FROM addresses
WHERE id = $1 AND customer_id = $2
RETURNING is_default
`
	var wasDefault bool
	err := r.pool.QueryRow(ctx, q, id, customerID).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("address_id", id).Msg("address repo: delete")
		return false, err
	}
	return wasDefault, nil
}

func (r *postgresRepo) PromoteMostRecent(ctx context.Context, customerID string) error {
	const q = `
UPDATE addresses
SET is_default = true, updated_at = now()
WHERE id = (
	SELECT id FROM addresses
	WHERE customer_id = $1
	ORDER BY created_at DESC
	LIMIT 1
)
`
	if _, err := r.pool.Exec(ctx, q, customerID); err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("address repo: promote")
		return err
	}
	return nil
}

func (r *postgresRepo) GetDefault(ctx context.Context, customerID string) (*domain.Address, error) {
	// Falls back to the newest address when no row is flagged, which
	// shields callers from a missing-default inconsistency.
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE customer_id = $1
ORDER BY is_default DESC, created_at DESC
LIMIT 1
`
	row := r.pool.QueryRow(ctx, q, customerID)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, customerID string) error {
	_, err := tx.Exec(ctx, `
UPDATE addresses
SET is_default = false, updated_at = now()
WHERE customer_id = $1 AND is_default
`, customerID)
	return err
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.FirstName,
		&a.LastName,
		&a.Line1,
		&a.Line2,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.Country,
		&a.Phone,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
