package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
	"github.com/flvvius/ecommerce-jewelry/internal/payment"
)

type stubCatalog struct {
	products map[string]domain.Product
}

func (s *stubCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubOrders struct {
	created   *domain.Order
	createErr error
}

func (s *stubOrders) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := *o
	created.ID = "order-1"
	s.created = &created
	return &created, nil
}

type stubAddresses struct {
	address *domain.Address
	err     error
}

func (s *stubAddresses) GetByID(_ context.Context, _ string) (*domain.Address, error) {
	return s.address, s.err
}

type stubProvider struct {
	session    *payment.CheckoutSession
	err        error
	calls      int
	lastParams payment.CheckoutSessionParams
}

func (s *stubProvider) CreateCheckoutSession(_ context.Context, params payment.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	s.calls++
	s.lastParams = params
	return s.session, s.err
}

func newService(catalog *stubCatalog, orders *stubOrders, addresses *stubAddresses, provider *stubProvider) *Service {
	return New(catalog, orders, addresses, provider, "https://shop.test/success", "https://shop.test/cart", zerolog.Nop())
}

func TestCheckout_DropsMissingProductAndPrices(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Aurora Gold Ring", PriceCents: 12000},
	}}
	orders := &stubOrders{}
	provider := &stubProvider{session: &payment.CheckoutSession{ID: "cs_1", URL: "https://pay.test/cs_1"}}
	svc := newService(catalog, orders, &stubAddresses{}, provider)

	result, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		CartID:     "cart-1",
		Items: []ItemInput{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "gone", Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://pay.test/cs_1", result.RedirectURL)
	assert.Equal(t, []string{"gone"}, result.DroppedProductIDs)
	assert.Equal(t, "order-1", result.OrderID)

	require.NotNil(t, orders.created)
	assert.Equal(t, int64(12000), orders.created.SubtotalCents)
	assert.Equal(t, int64(840), orders.created.TaxCents)
	assert.Equal(t, int64(0), orders.created.ShippingCents, "free shipping above threshold")
	assert.Equal(t, int64(12840), orders.created.TotalCents)
	assert.Equal(t, domain.StatusPending, orders.created.Status)
	require.Len(t, orders.created.Items, 1)
	assert.Equal(t, "Aurora Gold Ring", orders.created.Items[0].ProductName)
	assert.Equal(t, int64(12000), orders.created.Items[0].UnitPriceCents)
}

func TestCheckout_FlatShippingBelowThreshold(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Iris Pearl Earrings", PriceCents: 5000},
	}}
	orders := &stubOrders{}
	provider := &stubProvider{session: &payment.CheckoutSession{ID: "cs_2", URL: "https://pay.test/cs_2"}}
	svc := newService(catalog, orders, &stubAddresses{}, provider)

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NotNil(t, orders.created)
	assert.Equal(t, int64(5000), orders.created.SubtotalCents)
	assert.Equal(t, int64(350), orders.created.TaxCents)
	assert.Equal(t, int64(1000), orders.created.ShippingCents)
	assert.Equal(t, int64(6350), orders.created.TotalCents)
}

func TestCheckout_AllInvalidItems(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{}}
	orders := &stubOrders{}
	provider := &stubProvider{}
	svc := newService(catalog, orders, &stubAddresses{}, provider)

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		Items:      []ItemInput{{ProductID: "gone-1", Quantity: 1}, {ProductID: "gone-2", Quantity: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrNoValidItems)
	assert.Zero(t, provider.calls, "no payment session for an empty checkout")
	assert.Nil(t, orders.created, "no order for an empty checkout")
}

func TestCheckout_ProviderFailureAborts(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Ring", PriceCents: 5000},
	}}
	orders := &stubOrders{}
	provider := &stubProvider{err: errors.New("connection refused")}
	svc := newService(catalog, orders, &stubAddresses{}, provider)

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 1}},
	})

	var pErr *domain.PaymentProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Nil(t, orders.created, "no order without a payment session")
}

func TestCheckout_OrderInsertFailureStillReturnsSession(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Ring", PriceCents: 5000},
	}}
	orders := &stubOrders{createErr: errors.New("db down")}
	provider := &stubProvider{session: &payment.CheckoutSession{ID: "cs_3", URL: "https://pay.test/cs_3"}}
	svc := newService(catalog, orders, &stubAddresses{}, provider)

	result, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		CartID:     "cart-9",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err, "a local persistence hiccup must not block payment")
	assert.Equal(t, "https://pay.test/cs_3", result.RedirectURL)
	assert.Empty(t, result.OrderID)
}

func TestCheckout_SessionCarriesCartCorrelation(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Ring", PriceCents: 5000},
	}}
	provider := &stubProvider{session: &payment.CheckoutSession{ID: "cs_4", URL: "https://pay.test/cs_4"}}
	svc := newService(catalog, &stubOrders{}, &stubAddresses{}, provider)

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-7",
		CartID:     "cart-7",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "cart-7", provider.lastParams.Metadata[MetaCartID])
	assert.Equal(t, "cust-7", provider.lastParams.Metadata[MetaCustomerID])
	require.Len(t, provider.lastParams.LineItems, 1)
	assert.Equal(t, 2, provider.lastParams.LineItems[0].Quantity)
	assert.Equal(t, "https://shop.test/success", provider.lastParams.SuccessURL)
}

func TestCheckout_ShippingAddressOwnership(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Ring", PriceCents: 5000},
	}}
	addresses := &stubAddresses{address: &domain.Address{ID: "addr-1", CustomerID: "someone-else"}}
	provider := &stubProvider{}
	svc := newService(catalog, &stubOrders{}, addresses, provider)

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID:        "cust-1",
		Items:             []ItemInput{{ProductID: "p1", Quantity: 1}},
		ShippingAddressID: "addr-1",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, provider.calls)
}

func TestCheckout_RejectsNonPositiveQuantity(t *testing.T) {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Ring", PriceCents: 5000},
	}}
	svc := newService(catalog, &stubOrders{}, &stubAddresses{}, &stubProvider{})

	_, err := svc.Checkout(context.Background(), Input{
		CustomerID: "cust-1",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 0}},
	})

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
