package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the relational store of record for products.
// Save creates or updates by identity and stamps UpdatedAt (CreatedAt on the
// first write). GetByID and DeleteByID return ErrProductNotFound when the id
// is unknown.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Save(ctx context.Context, p *Product) (*Product, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]Product, error)
}
