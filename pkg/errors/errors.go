package errors

import (
	"fmt"

	"github.com/perfumeshop/salesapi/internal/domain"
)

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidInput indicates a caller-supplied value failed validation
type ErrInvalidInput struct {
	Message string
}

func (e *ErrInvalidInput) Error() string {
	return e.Message
}

// ErrConflict indicates the operation would violate a cart constraint,
// e.g. mixing products from two vendors in one cart
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrInsufficientStock indicates the requested quantity exceeds the
// available stock for a product
type ErrInsufficientStock struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// ErrInvalidStateTransition indicates an order status change that the
// state machine does not allow
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrForbidden indicates the caller does not own the requested resource
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// ErrMessageDelivery indicates the order was committed but its contact
// message could not be stored. The order exists and the message can be
// regenerated; callers must not treat this as an order failure.
type ErrMessageDelivery struct {
	OrderID string
	Err     error
}

func (e *ErrMessageDelivery) Error() string {
	return fmt.Sprintf("order %s created but contact message not stored: %v", e.OrderID, e.Err)
}

func (e *ErrMessageDelivery) Unwrap() error {
	return e.Err
}
