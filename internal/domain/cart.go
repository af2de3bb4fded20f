package domain

import "time"

type Cart struct {
	ID           string     `json:"id"`
	SessionToken string     `json:"-"`
	CustomerID   *string    `json:"customerId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Lines        []CartLine `json:"lines,omitempty"`
}

type CartLine struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
