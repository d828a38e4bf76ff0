package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ecomstore/go-storefront/internal/search"
)

// Service owns product CRUD. Every relational mutation is followed by a
// best-effort propagation to the search mirror; mirror failures are logged
// and never fail the call, the relational store stays the source of truth.
type Service struct {
	Store  Store
	Mirror search.Mirror
}

func (s *Service) Create(ctx context.Context, p *Product) (*Product, error) {
	p.ID = uuid.New() // always a new record, ignore caller-supplied ids
	if err := p.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.Store.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.propagate(ctx, saved)
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p *Product) (*Product, error) {
	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Category = p.Category
	existing.Price = p.Price
	existing.StockQuantity = p.StockQuantity
	if err := existing.Validate(); err != nil {
		return nil, err
	}
	saved, err := s.Store.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.propagate(ctx, saved)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.Store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err := s.Store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if s.Mirror != nil {
		if err := s.Mirror.DeleteByID(ctx, id.String()); err != nil {
			log.Printf("mirror delete failed for product %s: %v", id, err)
		}
	}
	return nil
}

// FindByID reads the store of record, never the mirror.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.Store.GetByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]Product, error) {
	return s.Store.FindAll(ctx)
}

func (s *Service) propagate(ctx context.Context, p *Product) {
	if s.Mirror == nil {
		return
	}
	if err := s.Mirror.Upsert(ctx, ToDocument(p)); err != nil {
		log.Printf("mirror upsert failed for product %s: %v", p.ID, err)
	}
}

func ToDocument(p *Product) search.Document {
	return search.Document{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
