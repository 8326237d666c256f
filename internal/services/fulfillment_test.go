package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stickerlabapp/stickerlab/internal/db"
	"github.com/stickerlabapp/stickerlab/internal/fulfillment"
	"github.com/stickerlabapp/stickerlab/internal/models"
)

var testShipTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fulfillmentFixture struct {
	service *FulfillmentService
	orders  *fakeOrderStore
	emails  *captureEmailSender
}

func newFulfillmentFixture(t *testing.T) *fulfillmentFixture {
	t.Helper()

	orders := newFakeOrderStore()
	emails := &captureEmailSender{}
	machine := fulfillment.NewMachine(
		fulfillment.WithClock(func() time.Time { return testShipTime }),
		fulfillment.WithTrackingNumberSource(func() string { return "9400000000000042" }),
	)

	return &fulfillmentFixture{
		service: NewFulfillmentService(orders, machine, emails, testLogger(), 50),
		orders:  orders,
		emails:  emails,
	}
}

func (fx *fulfillmentFixture) seedOrder(status models.OrderStatus) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ST-20260301-0007",
		Status:      status,
	}
	fx.orders.put(order)
	return order
}

func TestUpdateStatusPendingToProcessing(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusPending)

	updated, err := fx.service.UpdateStatus(context.Background(), order.ID, models.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.StatusProcessing {
		t.Errorf("status = %s, want %s", updated.Status, models.StatusProcessing)
	}

	stored, _ := fx.orders.GetByID(context.Background(), order.ID)
	if stored.Status != models.StatusProcessing {
		t.Errorf("stored status = %s, want %s", stored.Status, models.StatusProcessing)
	}
	if len(fx.emails.sent) != 0 {
		t.Errorf("non-shipping transition sent emails: %+v", fx.emails.sent)
	}
}

func TestUpdateStatusSelfTransitionIsNoOp(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusProcessing)

	updated, err := fx.service.UpdateStatus(context.Background(), order.ID, models.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.StatusProcessing {
		t.Errorf("status = %s, want %s", updated.Status, models.StatusProcessing)
	}
	if fx.orders.applyCalls != 0 {
		t.Errorf("no-op transition hit the store %d times", fx.orders.applyCalls)
	}
}

func TestUpdateStatusRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr error
	}{
		{
			name:    "pending cannot skip to shipped",
			from:    models.StatusPending,
			to:      models.StatusShipped,
			wantErr: fulfillment.ErrIllegalTransition,
		},
		{
			name:    "delivered is terminal",
			from:    models.StatusDelivered,
			to:      models.StatusPending,
			wantErr: fulfillment.ErrTerminalState,
		},
		{
			name:    "cancelled is terminal",
			from:    models.StatusCancelled,
			to:      models.StatusProcessing,
			wantErr: fulfillment.ErrTerminalState,
		},
		{
			name:    "unknown target",
			from:    models.StatusPending,
			to:      models.OrderStatus("lost"),
			wantErr: fulfillment.ErrUnknownStatus,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fx := newFulfillmentFixture(t)
			order := fx.seedOrder(tc.from)

			_, err := fx.service.UpdateStatus(context.Background(), order.ID, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tc.wantErr)
			}

			stored, _ := fx.orders.GetByID(context.Background(), order.ID)
			if stored.Status != tc.from {
				t.Errorf("rejected transition changed stored status to %s", stored.Status)
			}
		})
	}
}

func TestUpdateStatusToShippedSynthesizesTracking(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusProcessing)

	updated, err := fx.service.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if updated.TrackingNumber != "9400000000000042" {
		t.Errorf("tracking number = %q", updated.TrackingNumber)
	}
	if updated.Carrier != fulfillment.DefaultCarrier {
		t.Errorf("carrier = %q, want %q", updated.Carrier, fulfillment.DefaultCarrier)
	}
	wantDelivery := testShipTime.Add(fulfillment.EstimatedDeliveryOffset)
	if updated.EstimatedDelivery == nil || !updated.EstimatedDelivery.Equal(wantDelivery) {
		t.Errorf("estimated delivery = %v, want %v", updated.EstimatedDelivery, wantDelivery)
	}

	events, _ := fx.orders.ListTrackingEvents(context.Background(), order.ID)
	if len(events) != 1 {
		t.Fatalf("ledger has %d events, want 1", len(events))
	}
	if events[0].Status != "Order shipped" || events[0].Location != "Warehouse" {
		t.Errorf("shipment event = %+v", events[0])
	}
	if events[0].Date != "2026-03-14" || events[0].Time != "09:30" {
		t.Errorf("event timestamp = %s %s", events[0].Date, events[0].Time)
	}

	if len(fx.emails.sent) != 1 || fx.emails.sent[0].template != "order_shipped" {
		t.Fatalf("emails sent = %+v, want one order_shipped", fx.emails.sent)
	}
	shipment := fx.emails.sent[0].shipment
	if shipment.TrackingNumber != "9400000000000042" {
		t.Errorf("email tracking number = %q", shipment.TrackingNumber)
	}
	if shipment.TrackingURL == "" {
		t.Error("email tracking URL is empty")
	}
}

func TestShipOrderWithOperatorDetails(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusInProduction)

	updated, err := fx.service.ShipOrder(context.Background(), order.ID, ShipOrderInput{
		ShippingProvider: "ups",
		TrackingNumber:   "1Z999AA10123456784",
	})
	if err != nil {
		t.Fatalf("ShipOrder() error = %v", err)
	}

	if updated.Carrier != "UPS" {
		t.Errorf("carrier = %q, want UPS", updated.Carrier)
	}
	if updated.TrackingNumber != "1Z999AA10123456784" {
		t.Errorf("operator tracking number was replaced: %q", updated.TrackingNumber)
	}

	events, _ := fx.orders.ListTrackingEvents(context.Background(), order.ID)
	if len(events) != 1 {
		t.Errorf("ledger has %d events, want 1", len(events))
	}
}

func TestShipOrderCustomCarrier(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusProcessing)

	updated, err := fx.service.ShipOrder(context.Background(), order.ID, ShipOrderInput{
		ShippingProvider: "other",
		CustomCarrier:    "OnTrac",
		TrackingNumber:   "D10012345",
	})
	if err != nil {
		t.Fatalf("ShipOrder() error = %v", err)
	}
	if updated.Carrier != "OnTrac" {
		t.Errorf("carrier = %q, want OnTrac", updated.Carrier)
	}

	if fx.emails.sent[0].shipment.TrackingURL != "" {
		t.Errorf("unknown carrier produced a tracking URL: %q", fx.emails.sent[0].shipment.TrackingURL)
	}
}

func TestApplyTransitionConflictSurfaces(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusPending)

	// The fake enforces the status precondition the way the guarded
	// UPDATE does; hand ApplyTransition a stale from-status directly.
	stale, _ := fx.orders.GetByID(context.Background(), order.ID)
	stale.Status = models.StatusProcessing
	err := fx.orders.ApplyTransition(context.Background(), stale, models.StatusCancelled, nil)
	if !errors.Is(err, db.ErrTransitionConflict) {
		t.Fatalf("ApplyTransition() error = %v, want %v", err, db.ErrTransitionConflict)
	}
}

func TestAppendTrackingEventOnCancelledOrder(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusCancelled)

	event, err := fx.service.AppendTrackingEvent(context.Background(), order.ID, TrackingEventInput{
		Date:     "2026-03-20",
		Time:     "14:00",
		Status:   "Returned to sender",
		Location: "Regional facility",
	})
	if err != nil {
		t.Fatalf("AppendTrackingEvent() error = %v", err)
	}
	if event.ID == 0 {
		t.Error("event was not assigned an id")
	}

	events, _ := fx.orders.ListTrackingEvents(context.Background(), order.ID)
	if len(events) != 1 || events[0].Status != "Returned to sender" {
		t.Errorf("ledger = %+v", events)
	}
}

func TestRecordDelivery(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusShipped)

	updated, err := fx.service.RecordDelivery(context.Background(), order.ID, TrackingEventInput{
		Date:     "2026-03-18",
		Time:     "11:15",
		Location: "Front porch",
	})
	if err != nil {
		t.Fatalf("RecordDelivery() error = %v", err)
	}
	if updated.Status != models.StatusDelivered {
		t.Errorf("status = %s, want %s", updated.Status, models.StatusDelivered)
	}

	events, _ := fx.orders.ListTrackingEvents(context.Background(), order.ID)
	if len(events) != 1 || events[0].Status != "Delivered" {
		t.Errorf("ledger = %+v", events)
	}
}

func TestGetTracking(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	order := fx.seedOrder(models.StatusProcessing)

	if _, err := fx.service.UpdateStatus(context.Background(), order.ID, models.StatusShipped); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// Operator events append after the shipment event regardless of the
	// dates they carry.
	if _, err := fx.service.AppendTrackingEvent(context.Background(), order.ID, TrackingEventInput{
		Date:   "2026-03-01",
		Status: "Backdated scan",
	}); err != nil {
		t.Fatalf("AppendTrackingEvent() error = %v", err)
	}

	info, err := fx.service.GetTracking(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("GetTracking() error = %v", err)
	}

	if info.Status != models.StatusShipped {
		t.Errorf("status = %s, want %s", info.Status, models.StatusShipped)
	}
	if info.TrackingURL == "" {
		t.Error("tracking URL is empty")
	}
	if len(info.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(info.Events))
	}
	if info.Events[0].Status != "Order shipped" || info.Events[1].Status != "Backdated scan" {
		t.Errorf("ledger order = %q then %q", info.Events[0].Status, info.Events[1].Status)
	}
}

func TestGetTrackingUnknownOrder(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)

	if _, err := fx.service.GetTracking(context.Background(), "ST-00000000-0000"); err == nil {
		t.Fatal("GetTracking() succeeded for unknown order")
	}
}

func TestListOrdersByStatus(t *testing.T) {
	t.Parallel()
	fx := newFulfillmentFixture(t)
	fx.seedOrder(models.StatusPending)

	shipped := fx.seedOrder(models.StatusShipped)
	shipped.OrderNumber = "ST-20260302-0001"
	fx.orders.put(shipped)

	status := models.StatusShipped
	orders, err := fx.service.ListOrders(context.Background(), &status)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 1 || orders[0].Status != models.StatusShipped {
		t.Errorf("orders = %+v", orders)
	}

	bogus := models.OrderStatus("archived")
	if _, err := fx.service.ListOrders(context.Background(), &bogus); !errors.Is(err, fulfillment.ErrUnknownStatus) {
		t.Fatalf("ListOrders() error = %v, want %v", err, fulfillment.ErrUnknownStatus)
	}
}
