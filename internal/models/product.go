package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a stock-keeping unit tracked by the inventory.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string          `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Quantity      int             `json:"quantity" gorm:"not null;default:0"`
	UnitCost      decimal.Decimal `json:"unitCost" gorm:"type:decimal(12,2);not null"`
	MinStockLevel int             `json:"minStockLevel" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the product sits at or below its minimum stock level.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStockLevel
}

// MarshalJSON adds the computed lowStock flag to the product payload.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		LowStock bool `json:"lowStock"`
	}{
		product:  product(p),
		LowStock: p.IsLowStock(),
	})
}

// InventorySummary holds totals derived from products and the stock ledger.
type InventorySummary struct {
	ProductCount  int             `json:"productCount"`
	UnitsInStock  int             `json:"unitsInStock"`
	LowStockCount int             `json:"lowStockCount"`
	SalesCount    int             `json:"salesCount"`
	SalesRevenue  decimal.Decimal `json:"salesRevenue"`
	PurchaseCount int             `json:"purchaseCount"`
	PurchaseSpend decimal.Decimal `json:"purchaseSpend"`
	StockValue    decimal.Decimal `json:"stockValue"` // quantity * unitCost over all products
}
