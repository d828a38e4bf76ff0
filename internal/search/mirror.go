package search

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the denormalized mirror copy of a catalog product. Identity is
// carried as a string across the mirror boundary.
type Document struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Filter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type Page struct {
	Items []Document `json:"items"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
	Total int        `json:"total"`
}

// Mirror is the eventually-synchronized query copy of the catalog. It is
// never the source of truth; writers treat it as best effort.
type Mirror interface {
	Upsert(ctx context.Context, doc Document) error
	DeleteByID(ctx context.Context, id string) error
	Search(ctx context.Context, f Filter, page, size int) (Page, error)
}
