package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURL    string
}

// Apply inserts demo catalog data for manual testing. Idempotent: rows
// are matched by name and updated in place.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Aurora Gold Ring",
			Description: "18k gold band with a brushed finish",
			PriceCents:  18900,
			Stock:       12,
			ImageURL:    "/images/aurora-gold-ring.jpg",
		},
		{
			Name:        "Luna Silver Necklace",
			Description: "Sterling silver chain with a crescent pendant",
			PriceCents:  7400,
			Stock:       30,
			ImageURL:    "/images/luna-silver-necklace.jpg",
		},
		{
			Name:        "Iris Pearl Earrings",
			Description: "Freshwater pearls on gold-plated hooks",
			PriceCents:  5200,
			Stock:       25,
			ImageURL:    "/images/iris-pearl-earrings.jpg",
		},
		{
			Name:        "Sona Sapphire Bracelet",
			Description: "White gold bracelet set with lab sapphires",
			PriceCents:  24600,
			Stock:       6,
			ImageURL:    "/images/sona-sapphire-bracelet.jpg",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const update = `
UPDATE products
SET description = $2, price_cents = $3, stock = $4, image_url = $5
WHERE name = $1
`
	cmd, err := pool.Exec(ctx, update, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	const insert = `
INSERT INTO products (name, description, price_cents, stock, image_url)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = pool.Exec(ctx, insert, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageURL)
	return err
}
