package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecomstore/go-storefront/internal/search"
)

type mockStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*Product
}

func newMockStore() *mockStore {
	return &mockStore{products: make(map[uuid.UUID]*Product)}
}

func (s *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *mockStore) Save(ctx context.Context, p *Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	s.products[p.ID] = &cp
	return p, nil
}

func (s *mockStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[id]
	return ok, nil
}

func (s *mockStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *mockStore) FindAll(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

type mockMirror struct {
	mu         sync.Mutex
	upserts    []search.Document
	deletes    []string
	failUpsert bool
	failDelete bool
}

func (m *mockMirror) Upsert(ctx context.Context, doc search.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert {
		return errors.New("mirror unavailable")
	}
	m.upserts = append(m.upserts, doc)
	return nil
}

func (m *mockMirror) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return errors.New("mirror unavailable")
	}
	m.deletes = append(m.deletes, id)
	return nil
}

func (m *mockMirror) Search(ctx context.Context, f search.Filter, page, size int) (search.Page, error) {
	return search.Page{}, nil
}

func validProduct() *Product {
	return &Product{
		Name:          "Mechanical Keyboard",
		Description:   "Tenkeyless, brown switches",
		Category:      "peripherals",
		Price:         decimal.RequireFromString("89.90"),
		StockQuantity: 25,
	}
}

func TestCreate_AssignsIDAndPropagates(t *testing.T) {
	store := newMockStore()
	mirror := &mockMirror{}
	svc := &Service{Store: store, Mirror: mirror}

	in := validProduct()
	in.ID = uuid.New() // caller-supplied id must be discarded
	callerID := in.ID

	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == uuid.Nil || p.ID == callerID {
		t.Errorf("expected a fresh id, got %s", p.ID)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps set")
	}

	if len(mirror.upserts) != 1 {
		t.Fatalf("expected 1 mirror upsert, got %d", len(mirror.upserts))
	}
	doc := mirror.upserts[0]
	if doc.ID != p.ID.String() {
		t.Errorf("expected mirror doc id %s, got %s", p.ID, doc.ID)
	}
	if doc.Name != p.Name || !doc.Price.Equal(p.Price) || doc.StockQuantity != p.StockQuantity {
		t.Errorf("mirror doc does not match product: %+v", doc)
	}
}

func TestCreate_Invalid(t *testing.T) {
	store := newMockStore()
	mirror := &mockMirror{}
	svc := &Service{Store: store, Mirror: mirror}

	cases := map[string]func(*Product){
		"blank name":     func(p *Product) { p.Name = "   " },
		"blank category": func(p *Product) { p.Category = "" },
		"zero price":     func(p *Product) { p.Price = decimal.Zero },
		"negative stock": func(p *Product) { p.StockQuantity = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validProduct()
			mutate(p)
			_, err := svc.Create(context.Background(), p)
			if !errors.Is(err, ErrInvalidProduct) {
				t.Errorf("expected ErrInvalidProduct, got: %v", err)
			}
		})
	}
	if len(mirror.upserts) != 0 {
		t.Errorf("expected no mirror upserts for invalid products, got %d", len(mirror.upserts))
	}
}

func TestCreate_MirrorFailureNonFatal(t *testing.T) {
	store := newMockStore()
	mirror := &mockMirror{failUpsert: true}
	svc := &Service{Store: store, Mirror: mirror}

	p, err := svc.Create(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("expected success despite mirror failure, got: %v", err)
	}
	if _, err := store.GetByID(context.Background(), p.ID); err != nil {
		t.Errorf("expected product persisted, got: %v", err)
	}
}

func TestCreate_NilMirror(t *testing.T) {
	svc := &Service{Store: newMockStore()}
	if _, err := svc.Create(context.Background(), validProduct()); err != nil {
		t.Fatalf("expected success without a mirror, got: %v", err)
	}
}

func TestUpdate_RefreshesFieldsAndMirror(t *testing.T) {
	store := newMockStore()
	mirror := &mockMirror{}
	svc := &Service{Store: store, Mirror: mirror}

	created, err := svc.Create(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	patch := validProduct()
	patch.Name = "Mechanical Keyboard v2"
	patch.Price = decimal.RequireFromString("99.90")
	patch.StockQuantity = 10

	updated, err := svc.Update(context.Background(), created.ID, patch)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected id preserved, got %s", updated.ID)
	}
	if updated.Name != "Mechanical Keyboard v2" || updated.StockQuantity != 10 {
		t.Errorf("fields not refreshed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at must not move on update")
	}

	if len(mirror.upserts) != 2 {
		t.Fatalf("expected 2 mirror upserts, got %d", len(mirror.upserts))
	}
	if mirror.upserts[1].Name != "Mechanical Keyboard v2" {
		t.Errorf("mirror not refreshed: %+v", mirror.upserts[1])
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := &Service{Store: newMockStore(), Mirror: &mockMirror{}}
	_, err := svc.Update(context.Background(), uuid.New(), validProduct())
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestUpdate_Invalid(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store, Mirror: &mockMirror{}}

	created, err := svc.Create(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	patch := validProduct()
	patch.Price = decimal.RequireFromString("-5")
	if _, err := svc.Update(context.Background(), created.ID, patch); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("expected ErrInvalidProduct, got: %v", err)
	}

	// original record untouched
	got, err := store.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Price.Equal(created.Price) {
		t.Errorf("expected price unchanged, got %s", got.Price)
	}
}

func TestDelete_RemovesFromStoreAndMirror(t *testing.T) {
	store := newMockStore()
	mirror := &mockMirror{}
	svc := &Service{Store: store, Mirror: mirror}

	created, err := svc.Create(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(context.Background(), created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected product gone, got: %v", err)
	}
	if len(mirror.deletes) != 1 || mirror.deletes[0] != created.ID.String() {
		t.Errorf("expected mirror delete for %s, got %v", created.ID, mirror.deletes)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := &Service{Store: newMockStore(), Mirror: &mockMirror{}}
	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestFindByID_ReadsStoreOfRecord(t *testing.T) {
	store := newMockStore()
	// mirror that fails everything proves reads never touch it
	svc := &Service{Store: store, Mirror: &mockMirror{failUpsert: true, failDelete: true}}

	created, err := svc.Create(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected %s, got %s", created.ID, got.ID)
	}

	if _, err := svc.FindByID(context.Background(), uuid.New()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}
