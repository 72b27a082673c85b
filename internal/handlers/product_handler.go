package handlers

import (
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	inventory *services.InventoryService
	ledger    *services.StockLedger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(inventory *services.InventoryService, ledger *services.StockLedger) *ProductHandler {
	return &ProductHandler{
		inventory: inventory,
		ledger:    ledger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/low-stock", h.HandleGetLowStockProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/adjustments", h.HandleCorrectStock)
}

// HandleGetProducts lists all products ordered by name.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.inventory.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetLowStockProducts lists the products at or below their minimum stock level.
func (h *ProductHandler) HandleGetLowStockProducts(c *fiber.Ctx) error {
	products, err := h.inventory.ListLowStockProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.inventory.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product and responds 201.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	product, err := h.inventory.CreateProduct(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	product, err := h.inventory.UpdateProduct(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and responds 204 with no body.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.inventory.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCorrectStock records a manual stock correction for a product. It
// answers 201 when a correction was recorded and 200 when none was needed.
func (h *ProductHandler) HandleCorrectStock(c *fiber.Ctx) error {
	var input services.AdjustmentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	adjustment, err := h.ledger.CorrectStock(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	if adjustment.Delta() == 0 {
		// Already at the requested quantity; nothing was recorded.
		return c.Status(fiber.StatusOK).JSON(adjustment)
	}
	return c.Status(fiber.StatusCreated).JSON(adjustment)
}
