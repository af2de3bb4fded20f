package product

import (
	"context"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

// Repository reads catalog state. Cart and checkout only ever need the
// current price and existence of a product; writes exist for seeding.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Product, error)
}
