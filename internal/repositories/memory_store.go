package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
	"github.com/moby/locker"
)

// InMemoryStore is an in-memory implementation of ProductRepository and
// LedgerRepository. Every write to a product holds that product's lock for
// the whole read-check-write sequence, so operations on the same product are
// serialized while different products proceed in parallel.
type InMemoryStore struct {
	mu          sync.RWMutex
	products    map[string]models.Product
	sales       []models.Sale
	purchases   []models.Purchase
	adjustments []models.StockAdjustment
	locks       *locker.Locker
}

var (
	_ ProductRepository = (*InMemoryStore)(nil)
	_ LedgerRepository  = (*InMemoryStore)(nil)
)

// NewInMemoryStore creates a new, empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[string]models.Product),
		locks:    locker.New(),
	}
}

// GetAll returns all products ordered by name.
func (s *InMemoryStore) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	productList := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Name < productList[j].Name
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFoundError("product", id)
	}
	return &product, nil
}

// Create adds a new product. Names are unique.
func (s *InMemoryStore) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(product.Name, "") {
		return models.NewDuplicateNameError(product.Name)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = *product
	return nil
}

// Update writes the product's name, unit cost and minimum stock level.
// The stored quantity is left untouched and copied back into product.
func (s *InMemoryStore) Update(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.locks.Lock(product.ID)
	defer s.locks.Unlock(product.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[product.ID]
	if !ok {
		return models.NewNotFoundError("product", product.ID)
	}
	if s.nameTakenLocked(product.Name, product.ID) {
		return models.NewDuplicateNameError(product.Name)
	}
	stored.Name = product.Name
	stored.UnitCost = product.UnitCost
	stored.MinStockLevel = product.MinStockLevel
	stored.UpdatedAt = time.Now()
	s.products[product.ID] = stored
	*product = stored
	return nil
}

// Delete removes a product by its ID. Ledger rows that reference it are kept.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return models.NewNotFoundError("product", id)
	}
	delete(s.products, id)
	return nil
}

func (s *InMemoryStore) nameTakenLocked(name, exceptID string) bool {
	for id, p := range s.products {
		if id != exceptID && p.Name == name {
			return true
		}
	}
	return false
}
