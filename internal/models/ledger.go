package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of stock leaving the inventory.
// ProductName is a snapshot taken when the sale was recorded.
type Sale struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID    string          `json:"productId" gorm:"type:varchar(36);index;not null"`
	ProductName  string          `json:"productName" gorm:"type:varchar(100);not null"`
	UnitPrice    decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	QuantitySold int             `json:"quantitySold" gorm:"not null"`
	TotalPrice   decimal.Decimal `json:"totalPrice" gorm:"type:decimal(14,2);not null"`
	SaleDate     time.Time       `json:"saleDate" gorm:"index;not null"`
}

// Purchase is an immutable record of stock entering the inventory.
type Purchase struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID         string          `json:"productId" gorm:"type:varchar(36);index;not null"`
	ProductName       string          `json:"productName" gorm:"type:varchar(100);not null"`
	UnitPrice         decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	QuantityPurchased int             `json:"quantityPurchased" gorm:"not null"`
	TotalPrice        decimal.Decimal `json:"totalPrice" gorm:"type:decimal(14,2);not null"`
	PurchaseDate      time.Time       `json:"purchaseDate" gorm:"index;not null"`
}

// StockAdjustment records a manual correction of a product's quantity.
type StockAdjustment struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID        string    `json:"productId" gorm:"type:varchar(36);index;not null"`
	ProductName      string    `json:"productName" gorm:"type:varchar(100);not null"`
	PreviousQuantity int       `json:"previousQuantity" gorm:"not null"`
	NewQuantity      int       `json:"newQuantity" gorm:"not null"`
	Reason           string    `json:"reason" gorm:"type:varchar(255)"`
	AdjustedAt       time.Time `json:"adjustedAt" gorm:"index;not null"`
}

// Delta returns the signed quantity change applied by the adjustment.
func (a StockAdjustment) Delta() int {
	return a.NewQuantity - a.PreviousQuantity
}

// Stock event types published after a ledger transaction commits.
const (
	EventSaleRecorded     = "sale.recorded"
	EventPurchaseRecorded = "purchase.recorded"
	EventStockAdjusted    = "stock.adjusted"
	EventStockLow         = "stock.low"
)

// StockEvent is the message emitted for every committed quantity change.
type StockEvent struct {
	Type          string    `json:"type"`
	ReferenceID   string    `json:"referenceId,omitempty"` // sale, purchase or adjustment id
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	Delta         int       `json:"delta"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	OccurredAt    time.Time `json:"occurredAt"`
}
