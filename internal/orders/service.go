package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the order lifecycle core. Creation reserves product stock,
// cancellation restores it, and both run inside a single unit of work so a
// failure on any line rolls back every earlier decrement of the same call.
type Service struct {
	UOW    UnitOfWork
	Store  Store
	Events Publisher // optional
	Name   string    // producer name on event envelopes
}

// Create reserves stock for every requested line in list order, snapshots
// name and unit price into the items and persists the order atomically with
// all stock decrements.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.ProductID)
		}
	}

	var created *Order
	err := s.UOW.Do(ctx, func(tx Tx) error {
		order := &Order{
			ID:         uuid.New(),
			UserID:     userID,
			Status:     StatusCreated,
			TotalValue: decimal.Zero,
		}

		for _, line := range lines {
			p, err := tx.ProductForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p.StockQuantity < line.Quantity {
				return fmt.Errorf("%w for product %s", ErrInsufficientStock, p.Name)
			}

			p.StockQuantity -= line.Quantity
			if _, err := tx.Products().Save(ctx, p); err != nil {
				return fmt.Errorf("persist stock decrement: %w", err)
			}

			item := OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    line.Quantity,
				Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			}
			order.Items = append(order.Items, item)
			order.TotalValue = order.TotalValue.Add(item.Subtotal)
		}

		saved, err := tx.Orders().Save(ctx, order)
		if err != nil {
			return fmt.Errorf("persist order: %w", err)
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(TopicOrderCreated, EventOrderCreated, created.ID, OrderCreatedPayload{
		OrderID:    created.ID.String(),
		UserID:     created.UserID.String(),
		Items:      itemLines(created.Items),
		TotalValue: created.TotalValue.String(),
	})
	return created, nil
}

// FindByID enforces ownership: existence is not hidden from the wrong user,
// access is denied.
func (s *Service) FindByID(ctx context.Context, orderID, userID uuid.UUID) (*Order, error) {
	order, err := s.Store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.Store.ListByUserID(ctx, userID)
}

// UpdateStatus applies the transition rules and persists the new status.
// It never touches stock.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status, userID uuid.UUID) (*Order, error) {
	var updated *Order
	var from Status
	err := s.UOW.Do(ctx, func(tx Tx) error {
		order, err := s.resolve(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if err := validateTransition(order.Status, newStatus, order.TotalValue); err != nil {
			return err
		}
		from = order.Status
		order.Status = newStatus
		saved, err := tx.Orders().Save(ctx, order)
		if err != nil {
			return fmt.Errorf("persist status: %w", err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(TopicOrderStatusChanged, EventOrderStatusChanged, updated.ID, OrderStatusChangedPayload{
		OrderID: updated.ID.String(),
		From:    from,
		To:      updated.Status,
	})
	return updated, nil
}

// Cancel moves a CREATED order to CANCELED and restores each item's quantity
// to its product's stock. Restorations and the status change are one atomic
// unit, so stock can never be restored twice.
func (s *Service) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*Order, error) {
	var canceled *Order
	err := s.UOW.Do(ctx, func(tx Tx) error {
		order, err := s.resolve(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != StatusCreated {
			return ErrNotCancelable
		}

		order.Status = StatusCanceled
		for _, item := range order.Items {
			p, err := tx.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			p.StockQuantity += item.Quantity
			if _, err := tx.Products().Save(ctx, p); err != nil {
				return fmt.Errorf("persist stock restore: %w", err)
			}
		}

		saved, err := tx.Orders().Save(ctx, order)
		if err != nil {
			return fmt.Errorf("persist order: %w", err)
		}
		canceled = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(TopicOrderCanceled, EventOrderCanceled, canceled.ID, OrderCanceledPayload{
		OrderID:  canceled.ID.String(),
		Restored: itemLines(canceled.Items),
	})
	return canceled, nil
}

func (s *Service) resolve(ctx context.Context, tx Tx, orderID, userID uuid.UUID) (*Order, error) {
	order, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *Service) publish(topic, eventType string, orderID uuid.UUID, payload any) {
	if s.Events == nil {
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		CorrelationID: orderID.String(),
		Payload:       mustMarshal(payload),
	}
	s.Events.Publish(topic, eventType, PartitionKey(orderID.String()), mustMarshal(env))
}
