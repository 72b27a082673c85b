package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/shopspring/decimal"
)

// CreateProductInput is the request to create a product.
type CreateProductInput struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	UnitCost      decimal.Decimal `json:"unitCost" validate:"gte=0.01"`
	MinStockLevel int             `json:"minStockLevel" validate:"gte=0"`
}

// UpdateProductInput is a partial product update; nil fields are left as they are.
// A non-nil Quantity is applied as a manual stock correction.
type UpdateProductInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Quantity      *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitCost      *decimal.Decimal `json:"unitCost,omitempty" validate:"omitempty,gte=0.01"`
	MinStockLevel *int             `json:"minStockLevel,omitempty" validate:"omitempty,gte=0"`
}

// InventoryService handles product CRUD and exposes the ledger history.
// It never changes a quantity itself: stock movements go through the StockLedger.
type InventoryService struct {
	products repositories.ProductRepository
	ledger   *StockLedger
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(products repositories.ProductRepository, ledger *StockLedger) *InventoryService {
	return &InventoryService{
		products: products,
		ledger:   ledger,
	}
}

// ListProducts retrieves all products ordered by name.
func (s *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

// ListLowStockProducts retrieves the products at or below their minimum stock level.
func (s *InventoryService) ListLowStockProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.Product, 0, len(products))
	for _, p := range products {
		if s.ledger.IsLowStock(p) {
			low = append(low, p)
		}
	}
	return low, nil
}

// GetProduct retrieves a single product by its ID.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product with its initial quantity.
func (s *InventoryService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          input.Name,
		Quantity:      input.Quantity,
		UnitCost:      input.UnitCost.Round(2),
		MinStockLevel: input.MinStockLevel,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	log.Printf("Created product %s (ID: %s, quantity: %d)", product.Name, product.ID, product.Quantity)
	return product, nil
}

// UpdateProduct applies a partial update. Descriptive fields are written
// first; a quantity change is then recorded through the StockLedger.
func (s *InventoryService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, models.NewValidationError("name", "is required")
		}
		input.Name = &trimmed
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.UnitCost != nil || input.MinStockLevel != nil {
		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.UnitCost != nil {
			product.UnitCost = input.UnitCost.Round(2)
		}
		if input.MinStockLevel != nil {
			product.MinStockLevel = *input.MinStockLevel
		}
		if err := s.products.Update(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	// The ledger compares against the quantity under the product's lock; the
	// copy read above may already be stale.
	if input.Quantity != nil {
		_, err := s.ledger.CorrectStock(ctx, id, AdjustmentInput{
			Quantity: input.Quantity,
			Reason:   "manual correction via product update",
		})
		if err != nil {
			return nil, err
		}
		if product, err = s.products.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. Its sales and purchases keep
// their product name snapshot.
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	log.Printf("Deleted product %s", id)
	return nil
}

// ListSales retrieves all sales, newest first.
func (s *InventoryService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.ledger.ListSales(ctx)
}

// ListPurchases retrieves all purchases, newest first.
func (s *InventoryService) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.ledger.ListPurchases(ctx)
}
