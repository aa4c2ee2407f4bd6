package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caffeinecoffee/storefront/internal/domain"
)

// Generic messages shown when no specific reason is available
const (
	MsgOrderFailed     = "Failed to create order"
	MsgOrderProcessing = "An error occurred while processing your order"
)

// ErrEmptyCart is returned when checking out a cart with no items
var ErrEmptyCart = errors.New("cart is empty")

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when required input is missing or malformed
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("please fill in all fields: %s", strings.Join(e.Fields, ", "))
}

// ErrInvalidQuantity is returned when a cart line would leave 1..MaxQuantity
type ErrInvalidQuantity struct {
	Quantity int
}

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("quantity must be between 1 and %d, got %d", domain.MaxQuantity, e.Quantity)
}

// ErrOrderRejected is returned when the order service refuses an order
type ErrOrderRejected struct {
	StatusCode int
	Reason     string
}

func (e *ErrOrderRejected) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return MsgOrderFailed
}

// ErrTransport wraps network and serialization failures talking to the order service
type ErrTransport struct {
	Err error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("order request failed: %v", e.Err)
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}

// ErrInvalidStateTransition is returned when a checkout transition is not allowed
type ErrInvalidStateTransition struct {
	From domain.CheckoutState
	To   domain.CheckoutState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid checkout transition from %s to %s", e.From, e.To)
}

// UserMessage returns the text to show a shopper for a failed checkout.
func UserMessage(err error) string {
	var rejected *ErrOrderRejected
	var validation *ErrValidation
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rejected):
		return rejected.Error()
	case errors.As(err, &validation):
		return "Please fill in all fields"
	case errors.Is(err, ErrEmptyCart):
		return "There are no products in the cart"
	default:
		return MsgOrderProcessing
	}
}
