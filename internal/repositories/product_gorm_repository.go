package repositories

import (
	"context"
	"errors"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

var _ ProductRepository = (*GORMProductRepository)(nil)

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// The db must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products ordered by name.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, models.NewStoreUnavailableError("list products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("product", id)
		}
		return nil, models.NewStoreUnavailableError("get product", err)
	}
	return &product, nil
}

// Create inserts a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewDuplicateNameError(product.Name)
		}
		return models.NewStoreUnavailableError("create product", err)
	}
	return nil
}

// Update writes the product's name, unit cost and minimum stock level, then
// reloads it so the caller sees the current quantity.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":            product.Name,
			"unit_cost":       product.UnitCost,
			"min_stock_level": product.MinStockLevel,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return models.NewDuplicateNameError(product.Name)
		}
		return models.NewStoreUnavailableError("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("product", product.ID)
	}
	if err := db.First(product, "id = ?", product.ID).Error; err != nil {
		return models.NewStoreUnavailableError("reload product", err)
	}
	return nil
}

// Delete deletes a product by its ID. Sales and purchases are not touched.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return models.NewStoreUnavailableError("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("product", id)
	}
	return nil
}
