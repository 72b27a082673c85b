// Package app assembles the HTTP application from its dependencies.
package app

import (
	"fmt"
	"time"

	"gudang/internal/config"
	"gudang/internal/handlers"
	"gudang/internal/middleware"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the collaborators the application is built from.
// Publisher may be nil, in which case no stock events are emitted.
type Dependencies struct {
	Config    config.Config
	Stores    *repositories.Stores
	Publisher services.EventPublisher
}

// New builds the Fiber app: the REST API under /api, the static UI bundle
// for every other path, and a health check.
func New(deps Dependencies) *fiber.App {
	cfg := deps.Config

	ledger := services.NewStockLedger(deps.Stores.Ledger, deps.Stores.Products, deps.Publisher)
	inventory := services.NewInventoryService(deps.Stores.Products, ledger)
	authService := services.NewAuthService(deps.Stores.Users, cfg.JWTSecret, cfg.JWTTTL)

	app := fiber.New(fiber.Config{
		AppName:      "gudang",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": deps.Publisher != nil,
		})
	})

	var apiMiddleware []fiber.Handler
	if cfg.RequestTimeout > 0 {
		apiMiddleware = append(apiMiddleware, middleware.RequestTimeout(cfg.RequestTimeout))
	}
	api := app.Group("/api", apiMiddleware...)

	// Authentication routes are always public.
	handlers.NewAuthHandler(authService).RegisterRoutes(api)

	protected := api
	if cfg.AuthEnabled {
		protected = api.Group("", middleware.AuthRequired(authService))
	}
	handlers.NewProductHandler(inventory, ledger).RegisterRoutes(protected)
	handlers.NewLedgerHandler(inventory, ledger).RegisterRoutes(protected)

	// Unmatched API paths get an explicit 404 instead of falling through to the UI.
	api.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Cannot %s %s", c.Method(), c.Path()))
	})

	app.Static("/", cfg.StaticDir, fiber.Static{Index: "index.html"})

	return app
}
