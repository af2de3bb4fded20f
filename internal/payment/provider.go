// Package payment talks to the external payment provider: it creates
// hosted checkout sessions and parses and verifies the signed webhook
// events the provider delivers back.
package payment

import "context"

type LineItem struct {
	Name            string `json:"name"`
	UnitAmountCents int64  `json:"unit_amount"`
	Quantity        int    `json:"quantity"`
}

type CheckoutSessionParams struct {
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// CheckoutSession is the provider-hosted payment page the customer is
// redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}
