package repositories

import (
	"context"
	"fmt"
	"math"

	"gudang/internal/models"
)

// maxQuantity is the largest stock a product can hold.
const maxQuantity = math.MaxInt

// LedgerRepository applies quantity changes to products together with the
// ledger row that records them. Each Apply call is atomic: either the
// product quantity changes and the row is appended, or nothing is written.
type LedgerRepository interface {
	// ApplySale decrements the product by sale.QuantitySold only if enough
	// stock is on hand. It fills sale.ProductName and returns the product as
	// it stands after the decrement.
	ApplySale(ctx context.Context, sale *models.Sale) (*models.Product, error)
	// ApplyPurchase increments the product by purchase.QuantityPurchased. It
	// fails with a ValidationError, writing nothing, if the stock would pass
	// maxQuantity.
	ApplyPurchase(ctx context.Context, purchase *models.Purchase) (*models.Product, error)
	// ApplyAdjustment sets the product quantity to adj.NewQuantity and fills
	// adj.PreviousQuantity and adj.ProductName. When the locked quantity
	// already equals adj.NewQuantity nothing is written and adj.Delta() is 0.
	ApplyAdjustment(ctx context.Context, adj *models.StockAdjustment) (*models.Product, error)

	ListSales(ctx context.Context) ([]models.Sale, error)                 // newest first
	ListPurchases(ctx context.Context) ([]models.Purchase, error)         // newest first
	ListAdjustments(ctx context.Context) ([]models.StockAdjustment, error) // newest first
}

func stockOverflowError(product *models.Product, n int) error {
	return models.NewValidationError("quantityPurchased",
		fmt.Sprintf("of %d would take %s past %d units (%d on hand)", n, product.Name, maxQuantity, product.Quantity))
}
