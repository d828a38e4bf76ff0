package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomstore/go-storefront/internal/catalog"
	"github.com/ecomstore/go-storefront/internal/orders"
)

// UnitOfWork runs a function inside one pgx transaction. Any error rolls the
// whole transaction back; partial writes never survive.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(tx orders.Tx) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Orders() orders.Store { return &OrderStore{db: t.tx} }

func (t *pgTx) Products() catalog.Store { return &CatalogStore{db: t.tx} }

// ProductForUpdate locks the product row until the transaction ends so
// concurrent check-and-decrement sequences on the same product serialize.
func (t *pgTx) ProductForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1 FOR UPDATE`, id)
	return scanProduct(row)
}
