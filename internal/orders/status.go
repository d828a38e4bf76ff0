package orders

import (
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCreated  Status = "CREATED"
	StatusPaid     Status = "PAID"
	StatusCanceled Status = "CANCELED"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusCreated, StatusPaid, StatusCanceled:
		return Status(s), true
	}
	return "", false
}

// validateTransition checks the lifecycle rules in order. Only the forbidden
// patterns below are rejected; everything else, including same-state moves
// like CREATED -> CREATED, is permitted.
func validateTransition(current, next Status, total decimal.Decimal) error {
	if current == StatusCanceled {
		return ErrOrderCanceled
	}
	if current == StatusPaid && next == StatusCreated {
		return ErrPaidRegression
	}
	if next == StatusPaid && total.Cmp(decimal.Zero) <= 0 {
		return ErrZeroValuePayment
	}
	return nil
}
