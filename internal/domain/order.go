package domain

import "time"

// OrderStatus is the closed set of states an order moves through. Only
// pending -> processing is driven by this service; later transitions
// belong to fulfillment.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusShipped:   true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusDelivered: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is a legal successor of s.
// A transition to the same status is allowed as a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return allowedTransitions[s][next]
}

type Order struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"-"`
	Status            OrderStatus `json:"status"`
	SubtotalCents     int64       `json:"subtotalCents"`
	TaxCents          int64       `json:"taxCents"`
	ShippingCents     int64       `json:"shippingCents"`
	TotalCents        int64       `json:"totalCents"`
	ShippingAddressID *string     `json:"shippingAddressId,omitempty"`
	BillingAddressID  *string     `json:"billingAddressId,omitempty"`
	CheckoutSessionID string      `json:"-"`
	PaymentIntentID   *string     `json:"-"`
	CreatedAt         time.Time   `json:"createdAt"`
	Items             []OrderItem `json:"items,omitempty"`
}

// OrderItem carries its own name and unit price: the catalog price at the
// moment of checkout, frozen so later catalog edits never change the order.
type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}
