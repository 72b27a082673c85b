package services

import (
	"log"

	"gudang/internal/models"
)

// EventPublisher delivers stock events to interested consumers.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// publishStockEvents emits the event for a committed change, followed by a
// stock.low event when the product ended at or below its threshold.
// Failures are logged; the change itself is already durable.
func publishStockEvents(publisher EventPublisher, event models.StockEvent) {
	if publisher == nil {
		return
	}
	events := []models.StockEvent{event}
	if event.Quantity <= event.MinStockLevel {
		low := event
		low.Type = models.EventStockLow
		events = append(events, low)
	}
	for _, ev := range events {
		if err := publisher.Publish(ev.Type, ev); err != nil {
			log.Printf("Warning: failed to publish %s event for product %s: %v", ev.Type, ev.ProductID, err)
		}
	}
}
