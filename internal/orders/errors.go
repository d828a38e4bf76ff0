package orders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("not allowed to access this order")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrIllegalState is the root of every state-machine violation; match
	// with errors.Is.
	ErrIllegalState = errors.New("illegal order state")

	ErrOrderCanceled    = fmt.Errorf("%w: canceled orders cannot be modified", ErrIllegalState)
	ErrPaidRegression   = fmt.Errorf("%w: cannot revert a paid order back to CREATED", ErrIllegalState)
	ErrZeroValuePayment = fmt.Errorf("%w: cannot mark as paid an order with total value 0", ErrIllegalState)
	ErrNotCancelable    = fmt.Errorf("%w: only orders in CREATED status can be canceled", ErrIllegalState)
)
