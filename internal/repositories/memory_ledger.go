package repositories

import (
	"context"
	"sort"
	"time"

	"gudang/internal/models"
)

// ApplySale checks and decrements stock while holding the product's lock.
func (s *InMemoryStore) ApplySale(ctx context.Context, sale *models.Sale) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.locks.Lock(sale.ProductID)
	defer s.locks.Unlock(sale.ProductID)

	product, err := s.GetByID(ctx, sale.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Quantity < sale.QuantitySold {
		return nil, models.NewInsufficientStockError(product.Name, product.Quantity, sale.QuantitySold)
	}
	product.Quantity -= sale.QuantitySold
	product.UpdatedAt = time.Now()
	sale.ProductName = product.Name

	s.mu.Lock()
	s.products[product.ID] = *product
	s.sales = append(s.sales, *sale)
	s.mu.Unlock()
	return product, nil
}

// ApplyPurchase increments stock while holding the product's lock.
func (s *InMemoryStore) ApplyPurchase(ctx context.Context, purchase *models.Purchase) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.locks.Lock(purchase.ProductID)
	defer s.locks.Unlock(purchase.ProductID)

	product, err := s.GetByID(ctx, purchase.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Quantity > maxQuantity-purchase.QuantityPurchased {
		return nil, stockOverflowError(product, purchase.QuantityPurchased)
	}
	product.Quantity += purchase.QuantityPurchased
	product.UpdatedAt = time.Now()
	purchase.ProductName = product.Name

	s.mu.Lock()
	s.products[product.ID] = *product
	s.purchases = append(s.purchases, *purchase)
	s.mu.Unlock()
	return product, nil
}

// ApplyAdjustment overwrites the quantity while holding the product's lock.
func (s *InMemoryStore) ApplyAdjustment(ctx context.Context, adj *models.StockAdjustment) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.locks.Lock(adj.ProductID)
	defer s.locks.Unlock(adj.ProductID)

	product, err := s.GetByID(ctx, adj.ProductID)
	if err != nil {
		return nil, err
	}
	adj.PreviousQuantity = product.Quantity
	adj.ProductName = product.Name
	if adj.Delta() == 0 {
		return product, nil
	}
	product.Quantity = adj.NewQuantity
	product.UpdatedAt = time.Now()

	s.mu.Lock()
	s.products[product.ID] = *product
	s.adjustments = append(s.adjustments, *adj)
	s.mu.Unlock()
	return product, nil
}

// ListSales returns all sales, newest first.
func (s *InMemoryStore) ListSales(ctx context.Context) ([]models.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	sales := reversed(s.sales)
	s.mu.RUnlock()

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SaleDate.After(sales[j].SaleDate)
	})
	return sales, nil
}

// ListPurchases returns all purchases, newest first.
func (s *InMemoryStore) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	purchases := reversed(s.purchases)
	s.mu.RUnlock()

	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate)
	})
	return purchases, nil
}

// ListAdjustments returns all stock adjustments, newest first.
func (s *InMemoryStore) ListAdjustments(ctx context.Context) ([]models.StockAdjustment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	adjustments := reversed(s.adjustments)
	s.mu.RUnlock()

	sort.SliceStable(adjustments, func(i, j int) bool {
		return adjustments[i].AdjustedAt.After(adjustments[j].AdjustedAt)
	})
	return adjustments, nil
}

// reversed returns a copy of rows in reverse insertion order, so equal
// timestamps still list the most recent entry first.
func reversed[T any](rows []T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
