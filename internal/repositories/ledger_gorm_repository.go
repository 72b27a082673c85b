package repositories

import (
	"context"
	"errors"
	"time"

	"gudang/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMLedgerRepository is a GORM implementation of LedgerRepository.
//
// Quantity changes are single conditional UPDATE statements executed in the
// same transaction as the ledger insert, so concurrent writers cannot both
// pass the stock check and no failure leaves a half-applied change.
type GORMLedgerRepository struct {
	db *gorm.DB
}

var _ LedgerRepository = (*GORMLedgerRepository)(nil)

// NewGORMLedgerRepository creates a new instance of GORMLedgerRepository.
func NewGORMLedgerRepository(db *gorm.DB) *GORMLedgerRepository {
	return &GORMLedgerRepository{
		db: db,
	}
}

// ApplySale runs `quantity = quantity - n WHERE quantity >= n` and appends the sale.
func (r *GORMLedgerRepository) ApplySale(ctx context.Context, sale *models.Sale) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", sale.ProductID, sale.QuantitySold).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - ?", sale.QuantitySold),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return models.NewStoreUnavailableError("decrement stock", res.Error)
		}
		if err := loadProduct(tx, sale.ProductID, &product); err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return models.NewInsufficientStockError(product.Name, product.Quantity, sale.QuantitySold)
		}
		sale.ProductName = product.Name
		if err := tx.Create(sale).Error; err != nil {
			return models.NewStoreUnavailableError("insert sale", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ApplyPurchase runs `quantity = quantity + n WHERE quantity <= max - n` and
// appends the purchase.
func (r *GORMLedgerRepository) ApplyPurchase(ctx context.Context, purchase *models.Purchase) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity <= ?", purchase.ProductID, maxQuantity-purchase.QuantityPurchased).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", purchase.QuantityPurchased),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return models.NewStoreUnavailableError("increment stock", res.Error)
		}
		if err := loadProduct(tx, purchase.ProductID, &product); err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return stockOverflowError(&product, purchase.QuantityPurchased)
		}
		purchase.ProductName = product.Name
		if err := tx.Create(purchase).Error; err != nil {
			return models.NewStoreUnavailableError("insert purchase", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ApplyAdjustment locks the product row, records its previous quantity and
// overwrites it with adj.NewQuantity.
func (r *GORMLedgerRepository) ApplyAdjustment(ctx context.Context, adj *models.StockAdjustment) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadProduct(lockForUpdate(tx), adj.ProductID, &product); err != nil {
			return err
		}
		adj.PreviousQuantity = product.Quantity
		adj.ProductName = product.Name
		if adj.Delta() == 0 {
			return nil
		}

		now := time.Now()
		res := tx.Model(&models.Product{}).
			Where("id = ?", adj.ProductID).
			Updates(map[string]interface{}{
				"quantity":   adj.NewQuantity,
				"updated_at": now,
			})
		if res.Error != nil {
			return models.NewStoreUnavailableError("set stock", res.Error)
		}
		product.Quantity = adj.NewQuantity
		product.UpdatedAt = now
		if err := tx.Create(adj).Error; err != nil {
			return models.NewStoreUnavailableError("insert adjustment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListSales returns all sales, newest first.
func (r *GORMLedgerRepository) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.WithContext(ctx).Order("sale_date DESC").Find(&sales).Error; err != nil {
		return nil, models.NewStoreUnavailableError("list sales", err)
	}
	return sales, nil
}

// ListPurchases returns all purchases, newest first.
func (r *GORMLedgerRepository) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := r.db.WithContext(ctx).Order("purchase_date DESC").Find(&purchases).Error; err != nil {
		return nil, models.NewStoreUnavailableError("list purchases", err)
	}
	return purchases, nil
}

// ListAdjustments returns all stock adjustments, newest first.
func (r *GORMLedgerRepository) ListAdjustments(ctx context.Context) ([]models.StockAdjustment, error) {
	var adjustments []models.StockAdjustment
	if err := r.db.WithContext(ctx).Order("adjusted_at DESC").Find(&adjustments).Error; err != nil {
		return nil, models.NewStoreUnavailableError("list adjustments", err)
	}
	return adjustments, nil
}

func loadProduct(tx *gorm.DB, id string, product *models.Product) error {
	if err := tx.First(product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("product", id)
		}
		return models.NewStoreUnavailableError("get product", err)
	}
	return nil
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite has no row locks; the store runs it on a single connection instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
