package fulfillment

import (
	"github.com/google/uuid"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

// The tracking ledger is append-only: entries go on the tail in the order
// they arrive and are never reordered by their embedded date/time, which
// operators may backfill out of sequence.

// Append adds event to the end of the order's ledger.
func Append(order *models.Order, event models.TrackingEvent) {
	if event.OrderID == uuid.Nil {
		event.OrderID = order.ID
	}
	order.TrackingEvents = append(order.TrackingEvents, event)
}

// Events returns the order's ledger oldest-first. The returned slice is a
// copy; mutating it does not touch the order.
func Events(order *models.Order) []models.TrackingEvent {
	if len(order.TrackingEvents) == 0 {
		return nil
	}
	events := make([]models.TrackingEvent, len(order.TrackingEvents))
	copy(events, order.TrackingEvents)
	return events
}
