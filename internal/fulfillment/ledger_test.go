package fulfillment

import (
	"testing"

	"github.com/google/uuid"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

func TestLedger_PreservesAppendOrder(t *testing.T) {
	t.Parallel()

	order := &models.Order{ID: uuid.New(), Status: models.StatusShipped}

	// Embedded dates arrive out of sequence; insertion order still wins.
	entries := []models.TrackingEvent{
		{Date: "2026-03-14", Time: "09:30", Status: "Order shipped", Location: "Warehouse"},
		{Date: "2026-03-12", Time: "18:00", Status: "Label printed", Location: "Warehouse"},
		{Date: "2026-03-16", Time: "07:45", Status: "Out for delivery", Location: "Portland, OR"},
	}
	for _, entry := range entries {
		Append(order, entry)
	}

	events := Events(order)
	if len(events) != len(entries) {
		t.Fatalf("read back %d events, want %d", len(events), len(entries))
	}
	for i, event := range events {
		if event.Status != entries[i].Status {
			t.Fatalf("event %d = %q, want %q", i, event.Status, entries[i].Status)
		}
		if event.OrderID != order.ID {
			t.Fatalf("event %d not attached to order", i)
		}
	}
}

func TestLedger_EventsReturnsCopy(t *testing.T) {
	t.Parallel()

	order := &models.Order{ID: uuid.New(), Status: models.StatusCancelled}
	Append(order, models.TrackingEvent{Status: "Order cancelled", Location: "Support"})

	events := Events(order)
	events[0].Status = "tampered"

	if order.TrackingEvents[0].Status != "Order cancelled" {
		t.Fatalf("ledger entry mutated through read copy")
	}
}

func TestLedger_EmptyOrder(t *testing.T) {
	t.Parallel()

	if events := Events(&models.Order{}); events != nil {
		t.Fatalf("expected nil for empty ledger, got %v", events)
	}
}
