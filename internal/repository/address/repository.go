package address

import (
	"context"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type Repository interface {
	// ListByCustomer returns addresses default-first, then newest-first.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Address, error)
	GetByID(ctx context.Context, id string) (*domain.Address, error)
	// Create and Update clear the previous default in the same transaction
	// when the incoming record sets IsDefault.
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, a domain.Address) (*domain.Address, error)
	// Delete removes the address and reports whether it was the default.
	Delete(ctx context.Context, id, customerID string) (wasDefault bool, err error)
	// PromoteMostRecent flags the newest remaining address as default.
	// No-op when the customer has no addresses left.
	PromoteMostRecent(ctx context.Context, customerID string) error
	// GetDefault returns the flagged default, falling back to the newest
	// address when none is flagged.
	GetDefault(ctx context.Context, customerID string) (*domain.Address, error)
}
