package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/ecomstore/go-storefront/internal/catalog"
)

// Store persists orders together with their item lists. Save writes the
// order row and replaces the full item set; GetByID returns ErrNotFound for
// unknown ids. Save stamps UpdatedAt (CreatedAt on the first write).
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Save(ctx context.Context, o *Order) (*Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

// Tx exposes the stores bound to one atomic unit of work plus the locked
// product read used for stock reservation. ProductForUpdate must serialize
// concurrent readers of the same product row until the unit commits or
// rolls back.
type Tx interface {
	Orders() Store
	Products() catalog.Store
	ProductForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// UnitOfWork runs fn inside a single transaction: every write either commits
// with all the others or none apply.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}
