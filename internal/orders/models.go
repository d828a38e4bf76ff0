package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root; it exclusively owns its item list. The item
// list is fixed at creation, TotalValue is derived from the items and never
// set by callers.
type Order struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Status     Status
	TotalValue decimal.Decimal
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem snapshots the product name and unit price at creation time so
// later catalog edits never alter historical orders. ProductID is a weak
// reference, resolved only while the order is being created or canceled.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// Line is one requested (product, quantity) pair of a creation call.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
