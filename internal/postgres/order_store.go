package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomstore/go-storefront/internal/orders"
)

type OrderStore struct {
	db querier
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{db: pool}
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, status, total_value, created_at, updated_at
		FROM orders WHERE id=$1`, id)

	var o orders.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalValue, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	items, err := s.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// Save writes the order row and replaces the item set as one statement
// sequence; callers wanting atomicity run it inside a unit of work.
func (s *OrderStore) Save(ctx context.Context, o *orders.Order) (*orders.Order, error) {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total_value, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status, total_value=EXCLUDED.total_value, updated_at=EXCLUDED.updated_at`,
		o.ID, o.UserID, o.Status, o.TotalValue, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, o.ID); err != nil {
		return nil, fmt.Errorf("clear order items: %w", err)
	}
	for i, it := range o.Items {
		_, err := s.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity, subtotal, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			it.ID, o.ID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, it.Subtotal, i,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}
	return o, nil
}

func (s *OrderStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]orders.Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, status, total_value, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalValue, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := s.loadItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID uuid.UUID) ([]orders.OrderItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, subtotal
		FROM order_items WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []orders.OrderItem
	for rows.Next() {
		var it orders.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
