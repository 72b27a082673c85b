package handlers

import (
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler handles HTTP requests for sales, purchases and stock history.
type LedgerHandler struct {
	inventory *services.InventoryService
	ledger    *services.StockLedger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(inventory *services.InventoryService, ledger *services.StockLedger) *LedgerHandler {
	return &LedgerHandler{
		inventory: inventory,
		ledger:    ledger,
	}
}

// RegisterRoutes registers the ledger routes with the Fiber app.
func (h *LedgerHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/sales", h.HandleGetSales)
	router.Post("/sales", h.HandleRecordSale)
	router.Get("/purchases", h.HandleGetPurchases)
	router.Post("/purchases", h.HandleRecordPurchase)
	router.Get("/adjustments", h.HandleGetAdjustments)
	router.Get("/summary", h.HandleGetSummary)
}

// HandleGetSales lists sales, newest first.
func (h *LedgerHandler) HandleGetSales(c *fiber.Ctx) error {
	sales, err := h.inventory.ListSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// HandleRecordSale records a sale and responds 201 with it.
func (h *LedgerHandler) HandleRecordSale(c *fiber.Ctx) error {
	var input services.SaleInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	sale, err := h.ledger.RecordSale(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// HandleGetPurchases lists purchases, newest first.
func (h *LedgerHandler) HandleGetPurchases(c *fiber.Ctx) error {
	purchases, err := h.inventory.ListPurchases(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(purchases)
}

// HandleRecordPurchase records a purchase and responds 201 with it.
func (h *LedgerHandler) HandleRecordPurchase(c *fiber.Ctx) error {
	var input services.PurchaseInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	purchase, err := h.ledger.RecordPurchase(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// HandleGetAdjustments lists manual stock corrections, newest first.
func (h *LedgerHandler) HandleGetAdjustments(c *fiber.Ctx) error {
	adjustments, err := h.ledger.ListAdjustments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(adjustments)
}

// HandleGetSummary reports inventory totals.
func (h *LedgerHandler) HandleGetSummary(c *fiber.Ctx) error {
	summary, err := h.ledger.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
