// Package checkout coordinates the cart-to-order handoff: it re-validates
// the client's line items against the catalog, freezes prices into an
// order snapshot, acquires a hosted payment session, and records a
// pending order for the reconciler to complete.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
	"github.com/flvvius/ecommerce-jewelry/internal/payment"
)

// Tax is a flat rate; shipping is free above the threshold, a flat fee
// otherwise. All amounts are integer cents.
const (
	TaxRatePercent        = 7
	FreeShippingThreshold = 10000
	FlatShippingFee       = 1000
)

// Metadata keys attached to the payment session so webhook events can be
// correlated back to local state.
const (
	MetaCartID     = "cart_id"
	MetaCustomerID = "customer_id"
)

type Service struct {
	catalog   catalogReader
	orders    orderWriter
	addresses addressReader
	provider  payment.Provider
	logger    zerolog.Logger

	successURL string
	cancelURL  string
}

type catalogReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type orderWriter interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
}

type addressReader interface {
	GetByID(ctx context.Context, id string) (*domain.Address, error)
}

func New(catalog catalogReader, orders orderWriter, addresses addressReader, provider payment.Provider, successURL, cancelURL string, logger zerolog.Logger) *Service {
	return &Service{
		catalog:    catalog,
		orders:     orders,
		addresses:  addresses,
		provider:   provider,
		logger:     logger,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// ItemInput is a line as last seen by the client. It is never trusted:
// every product id is re-checked and re-priced against the catalog.
type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Input struct {
	CustomerID        string
	CartID            string
	Items             []ItemInput
	ShippingAddressID string
}

type Result struct {
	RedirectURL       string   `json:"redirectUrl"`
	CheckoutSessionID string   `json:"checkoutSessionId"`
	OrderID           string   `json:"orderId,omitempty"`
	DroppedProductIDs []string `json:"droppedProductIds,omitempty"`
}

type pricedItem struct {
	product  domain.Product
	quantity int
}

// Checkout runs the orchestration. Failure before the provider call
// leaves no side effects. Failure of the provider call aborts with
// PaymentProviderError. Failure of the local order insert after the
// session exists is swallowed: the customer can still pay, and the
// reconciler is expected to backfill from the provider's record.
func (s *Service) Checkout(ctx context.Context, in Input) (*Result, error) {
	priced, dropped, err := s.validateItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if len(priced) == 0 {
		return nil, domain.ErrNoValidItems
	}

	var shippingAddressID *string
	if in.ShippingAddressID != "" {
		addr, err := s.addresses.GetByID(ctx, in.ShippingAddressID)
		if err != nil {
			return nil, err
		}
		if addr.CustomerID != in.CustomerID {
			return nil, domain.ErrForbidden
		}
		shippingAddressID = &addr.ID
	}

	subtotal, tax, shipping, total := priceTotals(priced)

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutSessionParams{
		LineItems:  toLineItems(priced),
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata: map[string]string{
			MetaCartID:     in.CartID,
			MetaCustomerID: in.CustomerID,
		},
	})
	if err != nil {
		return nil, &domain.PaymentProviderError{Err: err}
	}

	result := &Result{
		RedirectURL:       session.URL,
		CheckoutSessionID: session.ID,
		DroppedProductIDs: dropped,
	}

	order := &domain.Order{
		CustomerID:        in.CustomerID,
		Status:            domain.StatusPending,
		SubtotalCents:     subtotal,
		TaxCents:          tax,
		ShippingCents:     shipping,
		TotalCents:        total,
		ShippingAddressID: shippingAddressID,
		CheckoutSessionID: session.ID,
		Items:             toOrderItems(priced),
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		// The payment session already exists and is the authoritative
		// record; never block the customer's ability to pay on a local
		// persistence hiccup. The gap is logged for reconciliation.
		s.logger.Error().Err(err).
			Str("checkout_session_id", session.ID).
			Str("cart_id", in.CartID).
			Msg("checkout: pending order insert failed; session returned anyway")
		return result, nil
	}

	result.OrderID = created.ID
	return result, nil
}

// validateItems re-queries the catalog for every referenced product and
// filters the ones that no longer exist, reporting which were dropped.
func (s *Service) validateItems(ctx context.Context, items []ItemInput) ([]pricedItem, []string, error) {
	var priced []pricedItem
	var dropped []string
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, nil, &domain.ValidationError{Fields: []string{"quantity"}}
		}
		product, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				dropped = append(dropped, item.ProductID)
				continue
			}
			return nil, nil, fmt.Errorf("validate item %s: %w", item.ProductID, err)
		}
		priced = append(priced, pricedItem{product: *product, quantity: item.Quantity})
	}
	return priced, dropped, nil
}

func priceTotals(items []pricedItem) (subtotal, tax, shipping, total int64) {
	for _, it := range items {
		subtotal += it.product.PriceCents * int64(it.quantity)
	}
	tax = subtotal * TaxRatePercent / 100
	if subtotal <= FreeShippingThreshold {
		shipping = FlatShippingFee
	}
	total = subtotal + tax + shipping
	return subtotal, tax, shipping, total
}

func toLineItems(items []pricedItem) []payment.LineItem {
	out := make([]payment.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, payment.LineItem{
			Name:            it.product.Name,
			UnitAmountCents: it.product.PriceCents,
			Quantity:        it.quantity,
		})
	}
	return out
}

func toOrderItems(items []pricedItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			ProductID:      it.product.ID,
			ProductName:    it.product.Name,
			UnitPriceCents: it.product.PriceCents,
			Quantity:       it.quantity,
		})
	}
	return out
}
