// Package payment reconciles asynchronous provider events with local
// order and cart state. Deliveries may repeat and arrive out of order;
// every handler re-reads current state instead of assuming it is the
// only writer.
package payment

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
	"github.com/flvvius/ecommerce-jewelry/internal/payment"
	checkoutsvc "github.com/flvvius/ecommerce-jewelry/internal/service/checkout"
)

type Reconciler struct {
	orders orderRepo
	carts  cartRepo
	logger zerolog.Logger
}

type orderRepo interface {
	MarkProcessingBySession(ctx context.Context, checkoutSessionID, paymentIntentID string) error
	MarkProcessingByIntent(ctx context.Context, paymentIntentID string) error
}

type cartRepo interface {
	Clear(ctx context.Context, cartID string) error
}

func NewReconciler(orders orderRepo, carts cartRepo, logger zerolog.Logger) *Reconciler {
	return &Reconciler{orders: orders, carts: carts, logger: logger}
}

// HandleEvent applies one verified event. It always returns nil for
// recognized and unrecognized types alike: once the signature has been
// accepted, partial internal failures are logged rather than surfaced,
// so the provider does not retry-storm a delivery that mostly succeeded.
func (r *Reconciler) HandleEvent(ctx context.Context, evt *payment.Event) error {
	switch evt.Type {
	case payment.EventCheckoutSessionCompleted:
		r.handleSessionCompleted(ctx, evt.SessionCompleted)
	case payment.EventPaymentIntentSucceeded:
		r.handleIntentSucceeded(ctx, evt.IntentSucceeded)
	default:
		r.logger.Debug().Str("event_id", evt.ID).Str("event_type", evt.Type).Msg("reconciler: ignoring event type")
	}
	return nil
}

func (r *Reconciler) handleSessionCompleted(ctx context.Context, evt *payment.CheckoutSessionCompletedEvent) {
	err := r.orders.MarkProcessingBySession(ctx, evt.SessionID, evt.PaymentIntentID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// The pending order insert may have failed at checkout time; the
		// provider session is the source of truth and an out-of-band
		// backfill can recover the order later.
		r.logger.Warn().Str("checkout_session_id", evt.SessionID).Msg("reconciler: no order for completed session")
	case err != nil:
		r.logger.Error().Err(err).Str("checkout_session_id", evt.SessionID).Msg("reconciler: mark processing by session")
	}

	cartID := evt.Metadata[checkoutsvc.MetaCartID]
	if cartID == "" {
		return
	}
	if err := r.carts.Clear(ctx, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("reconciler: clear cart")
	}
}

func (r *Reconciler) handleIntentSucceeded(ctx context.Context, evt *payment.PaymentIntentSucceededEvent) {
	err := r.orders.MarkProcessingByIntent(ctx, evt.IntentID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// The matching session event may not have linked the intent yet;
		// that event will drive the same transition when it lands.
		r.logger.Warn().Str("payment_intent_id", evt.IntentID).Msg("reconciler: no order for succeeded intent")
	case err != nil:
		r.logger.Error().Err(err).Str("payment_intent_id", evt.IntentID).Msg("reconciler: mark processing by intent")
	}
}
