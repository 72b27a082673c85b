package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleInput is the request to record a sale.
type SaleInput struct {
	ProductID    string          `json:"productId" validate:"required"`
	QuantitySold int             `json:"quantitySold" validate:"min=1"`
	UnitPrice    decimal.Decimal `json:"unitPrice" validate:"gte=0.01"`
	SaleDate     *time.Time      `json:"saleDate,omitempty"`
}

// PurchaseInput is the request to record a purchase.
type PurchaseInput struct {
	ProductID         string          `json:"productId" validate:"required"`
	QuantityPurchased int             `json:"quantityPurchased" validate:"min=1"`
	UnitPrice         decimal.Decimal `json:"unitPrice" validate:"gte=0.01"`
	PurchaseDate      *time.Time      `json:"purchaseDate,omitempty"`
}

// AdjustmentInput is the request to manually correct a product's quantity.
type AdjustmentInput struct {
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
	Reason   string `json:"reason" validate:"max=255"`
}

// StockLedger is the only writer of product quantities. It applies sales,
// purchases and manual corrections as atomic store transactions and records
// an immutable ledger row for each.
type StockLedger struct {
	ledger    repositories.LedgerRepository
	products  repositories.ProductRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewStockLedger creates a new StockLedger. publisher may be nil.
func NewStockLedger(ledger repositories.LedgerRepository, products repositories.ProductRepository, publisher EventPublisher) *StockLedger {
	return &StockLedger{
		ledger:    ledger,
		products:  products,
		publisher: publisher,
		now:       time.Now,
	}
}

// RecordSale decrements the product's stock and appends a Sale. It fails
// with an InsufficientStockError, leaving the product unchanged, when fewer
// than input.QuantitySold units are on hand.
func (l *StockLedger) RecordSale(ctx context.Context, input SaleInput) (*models.Sale, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	sale := &models.Sale{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		UnitPrice:    input.UnitPrice.Round(2),
		QuantitySold: input.QuantitySold,
		SaleDate:     l.timestamp(input.SaleDate),
	}
	sale.TotalPrice = lineTotal(sale.UnitPrice, sale.QuantitySold)

	product, err := l.ledger.ApplySale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}
	log.Printf("Recorded sale %s: %d x %s, %d left", sale.ID, sale.QuantitySold, sale.ProductName, product.Quantity)

	publishStockEvents(l.publisher, stockEvent(models.EventSaleRecorded, sale.ID, product, -sale.QuantitySold, l.now()))
	return sale, nil
}

// RecordPurchase increments the product's stock and appends a Purchase.
// There is no upper bound on stock.
func (l *StockLedger) RecordPurchase(ctx context.Context, input PurchaseInput) (*models.Purchase, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		UnitPrice:         input.UnitPrice.Round(2),
		QuantityPurchased: input.QuantityPurchased,
		PurchaseDate:      l.timestamp(input.PurchaseDate),
	}
	purchase.TotalPrice = lineTotal(purchase.UnitPrice, purchase.QuantityPurchased)

	product, err := l.ledger.ApplyPurchase(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}
	log.Printf("Recorded purchase %s: %d x %s, %d on hand", purchase.ID, purchase.QuantityPurchased, purchase.ProductName, product.Quantity)

	publishStockEvents(l.publisher, stockEvent(models.EventPurchaseRecorded, purchase.ID, product, purchase.QuantityPurchased, l.now()))
	return purchase, nil
}

// CorrectStock sets the product's quantity to an absolute value and records
// the correction, so manual edits stay on the audit trail. If the quantity
// already matches, nothing is recorded and the returned adjustment has a
// zero Delta.
func (l *StockLedger) CorrectStock(ctx context.Context, productID string, input AdjustmentInput) (*models.StockAdjustment, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Reason == "" {
		input.Reason = "manual correction"
	}

	adj := &models.StockAdjustment{
		ID:          uuid.New().String(),
		ProductID:   productID,
		NewQuantity: *input.Quantity,
		Reason:      input.Reason,
		AdjustedAt:  l.now(),
	}
	product, err := l.ledger.ApplyAdjustment(ctx, adj)
	if err != nil {
		return nil, fmt.Errorf("failed to correct stock: %w", err)
	}
	if adj.Delta() == 0 {
		log.Printf("Stock of %s already at %d, no correction recorded", adj.ProductName, adj.NewQuantity)
		return adj, nil
	}
	log.Printf("Corrected stock of %s from %d to %d (%s)", adj.ProductName, adj.PreviousQuantity, adj.NewQuantity, adj.Reason)

	publishStockEvents(l.publisher, stockEvent(models.EventStockAdjusted, adj.ID, product, adj.Delta(), adj.AdjustedAt))
	return adj, nil
}

// IsLowStock reports whether the product is at or below its minimum stock level.
// It is advisory only; the ledger never rejects a change because of it.
func (l *StockLedger) IsLowStock(product models.Product) bool {
	return product.IsLowStock()
}

// ListSales returns all sales, newest first.
func (l *StockLedger) ListSales(ctx context.Context) ([]models.Sale, error) {
	return l.ledger.ListSales(ctx)
}

// ListPurchases returns all purchases, newest first.
func (l *StockLedger) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return l.ledger.ListPurchases(ctx)
}

// ListAdjustments returns all manual stock corrections, newest first.
func (l *StockLedger) ListAdjustments(ctx context.Context) ([]models.StockAdjustment, error) {
	return l.ledger.ListAdjustments(ctx)
}

// Summary computes inventory totals from the current products and the ledger.
func (l *StockLedger) Summary(ctx context.Context) (*models.InventorySummary, error) {
	products, err := l.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := l.ledger.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := l.ledger.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.InventorySummary{
		ProductCount:  len(products),
		SalesCount:    len(sales),
		PurchaseCount: len(purchases),
		SalesRevenue:  decimal.Zero,
		PurchaseSpend: decimal.Zero,
		StockValue:    decimal.Zero,
	}
	for _, p := range products {
		summary.UnitsInStock += p.Quantity
		summary.StockValue = summary.StockValue.Add(lineTotal(p.UnitCost, p.Quantity))
		if l.IsLowStock(p) {
			summary.LowStockCount++
		}
	}
	for _, s := range sales {
		summary.SalesRevenue = summary.SalesRevenue.Add(s.TotalPrice)
	}
	for _, p := range purchases {
		summary.PurchaseSpend = summary.PurchaseSpend.Add(p.TotalPrice)
	}
	return summary, nil
}

func (l *StockLedger) timestamp(requested *time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return *requested
	}
	return l.now()
}

func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func stockEvent(eventType, referenceID string, product *models.Product, delta int, at time.Time) models.StockEvent {
	return models.StockEvent{
		Type:          eventType,
		ReferenceID:   referenceID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Delta:         delta,
		Quantity:      product.Quantity,
		MinStockLevel: product.MinStockLevel,
		OccurredAt:    at,
	}
}
