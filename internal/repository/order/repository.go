package order

import (
	"context"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type Repository interface {
	// Create inserts the order and its item snapshot in one transaction.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// MarkProcessingBySession flips a pending order to processing, keyed
	// by the provider checkout session. Re-delivery is a no-op; a missing
	// order is domain.ErrNotFound. paymentIntentID, when non-empty, is
	// recorded if the order has none yet.
	MarkProcessingBySession(ctx context.Context, checkoutSessionID, paymentIntentID string) error
	// MarkProcessingByIntent is the same transition keyed by the payment
	// intent, for events that arrive without a session reference.
	MarkProcessingByIntent(ctx context.Context, paymentIntentID string) error
}
