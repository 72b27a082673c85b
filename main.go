package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"gudang/internal/app"
	"gudang/internal/config"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	deps, cleanup, err := newDependencies(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer cleanup()

	server := app.New(deps)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (store: %s)", cfg.AppPort, cfg.DBDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newDependencies opens the configured store and, when RABBITMQ_URL is set,
// connects the stock event publisher and starts the low stock consumer.
// The returned cleanup releases everything that was opened.
func newDependencies(cfg config.Config) (app.Dependencies, func(), error) {
	stores, err := repositories.OpenStores(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return app.Dependencies{}, nil, err
	}

	deps := app.Dependencies{Config: cfg, Stores: stores}
	if cfg.RabbitMQURL == "" {
		log.Println("RABBITMQ_URL not set, stock events are disabled")
		return deps, func() { closeStores(stores) }, nil
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
	if err != nil {
		closeStores(stores)
		return app.Dependencies{}, nil, err
	}
	deps.Publisher = mqClient

	log.Println("Starting RabbitMQ consumer for stock events...")
	if err := mqClient.Consume(handleStockEvent); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}

	cleanup := func() {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
		closeStores(stores)
	}
	return deps, cleanup, nil
}

// handleStockEvent logs reorder alerts. Other event types are acknowledged as is.
func handleStockEvent(msg amqp.Delivery) error {
	if msg.Type != models.EventStockLow {
		return nil
	}
	var event models.StockEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode stock event: %w", err)
	}
	log.Printf("Low stock: %s has %d left (minimum %d)", event.ProductName, event.Quantity, event.MinStockLevel)
	return nil
}

func closeStores(stores *repositories.Stores) {
	if err := stores.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}
