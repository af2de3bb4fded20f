package cart

import (
	"context"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the cart for a session token, creating an empty
	// one if absent. Safe under concurrent calls for the same token.
	GetOrCreate(ctx context.Context, sessionToken string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// AddLine upserts a line for (cart, product): an existing line has its
	// quantity incremented, otherwise a new line is inserted.
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	// Clear deletes the cart and, by cascade, its lines. Clearing a cart
	// that no longer exists is a no-op.
	Clear(ctx context.Context, cartID string) error
}
