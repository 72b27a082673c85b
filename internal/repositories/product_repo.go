package repositories

import (
	"context"

	"gudang/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Update persists a product's descriptive fields only. Quantity is owned by
// LedgerRepository and is never written through Update.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error) // ordered by name
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
