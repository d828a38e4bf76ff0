package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	}
	if p.Price.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", ErrInvalidProduct)
	}
	return nil
}
