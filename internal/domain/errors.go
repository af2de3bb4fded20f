package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the entity exists but is not owned by the caller.
	ErrForbidden = errors.New("forbidden")
	// ErrProductNotFound indicates a referenced product id no longer exists.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoValidItems indicates checkout validation filtered out every item.
	ErrNoValidItems = errors.New("no valid items")
)

// ValidationError rejects input with the missing or invalid fields named.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

// PaymentProviderError wraps a failed or timed-out payment provider call.
// Checkout aborts on it and the caller may retry.
type PaymentProviderError struct {
	Err error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("payment provider: %v", e.Err)
}

func (e *PaymentProviderError) Unwrap() error {
	return e.Err
}
