package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/stickerlabapp/stickerlab/internal/fulfillment"
	"github.com/stickerlabapp/stickerlab/internal/logging"
	"github.com/stickerlabapp/stickerlab/internal/models"
	"github.com/stickerlabapp/stickerlab/internal/observability"
)

type orderRepository interface {
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, limit int) ([]*models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus, limit int) ([]*models.Order, error)
	ApplyTransition(ctx context.Context, order *models.Order, from models.OrderStatus, events []models.TrackingEvent) error
	AppendTrackingEvent(ctx context.Context, orderID uuid.UUID, event *models.TrackingEvent) error
	ListTrackingEvents(ctx context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error)
}

// FulfillmentService drives orders through the fulfillment flow: status
// transitions, shipping, and the tracking ledger.
type FulfillmentService struct {
	orders      orderRepository
	machine     *fulfillment.Machine
	emailSender OrderEmailSender
	logger      *slog.Logger
	listLimit   int
}

func NewFulfillmentService(orders orderRepository, machine *fulfillment.Machine, emailSender OrderEmailSender, logger *slog.Logger, listLimit int) *FulfillmentService {
	if emailSender == nil {
		emailSender = noopOrderEmailSender{}
	}
	if listLimit <= 0 {
		listLimit = 50
	}

	return &FulfillmentService{
		orders:      orders,
		machine:     machine,
		emailSender: emailSender,
		logger:      logger,
		listLimit:   listLimit,
	}
}

func (s *FulfillmentService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// ListOrders returns recent orders, optionally filtered to one status.
func (s *FulfillmentService) ListOrders(ctx context.Context, status *models.OrderStatus) ([]*models.Order, error) {
	if status != nil {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", fulfillment.ErrUnknownStatus, *status)
		}
		return s.orders.ListByStatus(ctx, *status, s.listLimit)
	}
	return s.orders.List(ctx, s.listLimit)
}

func (s *FulfillmentService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// UpdateStatus moves an order to the target status. Re-applying the
// current status is a successful no-op and touches nothing. Entering
// shipped synthesizes carrier and tracking details and appends the
// shipment event in the same transaction as the status change.
func (s *FulfillmentService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.fulfillment.update_status",
		sentry.WithOpName("service.fulfillment"),
		sentry.WithDescription("UpdateStatus"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)
	meter := observability.MeterFromContext(ctx)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	result, err := s.machine.Transition(order, target)
	if err != nil {
		meter.Count("fulfillment.transition.rejected", 1, sentry.WithAttributes(
			attribute.String("from", string(order.Status)),
			attribute.String("to", string(target)),
		))
		return nil, err
	}
	if !result.Changed {
		return order, nil
	}

	if err := s.orders.ApplyTransition(ctx, order, result.From, result.AppendedEvents); err != nil {
		return nil, err
	}

	meter.Count("fulfillment.transition.applied", 1, sentry.WithAttributes(
		attribute.String("from", string(result.From)),
		attribute.String("to", string(result.To)),
	))
	logger.Info("order status updated",
		"order_number", order.OrderNumber,
		"from", result.From,
		"to", result.To,
	)

	if result.To == models.StatusShipped {
		s.sendShippedEmail(ctx, order)
	}

	return order, nil
}

type ShipOrderInput struct {
	ShippingProvider  string
	CustomCarrier     string
	TrackingNumber    string
	EstimatedDelivery *time.Time
}

// ShipOrder ships with operator-supplied carrier details. Anything the
// operator leaves blank is synthesized the same way a bare transition to
// shipped would synthesize it.
func (s *FulfillmentService) ShipOrder(ctx context.Context, orderID uuid.UUID, input ShipOrderInput) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.fulfillment.ship_order",
		sentry.WithOpName("service.fulfillment"),
		sentry.WithDescription("ShipOrder"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if carrier := ResolveShippingCarrier(input.ShippingProvider, input.CustomCarrier); carrier != "" {
		order.Carrier = carrier
	}
	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.EstimatedDelivery != nil {
		order.EstimatedDelivery = input.EstimatedDelivery
	}

	result, err := s.machine.Transition(order, models.StatusShipped)
	if err != nil {
		return nil, err
	}
	if !result.Changed {
		return order, nil
	}

	if err := s.orders.ApplyTransition(ctx, order, result.From, result.AppendedEvents); err != nil {
		return nil, err
	}

	logger.Info("order shipped",
		"order_number", order.OrderNumber,
		"carrier", order.Carrier,
		"tracking_number", order.TrackingNumber,
	)

	s.sendShippedEmail(ctx, order)

	return order, nil
}

type TrackingEventInput struct {
	Date     string
	Time     string
	Status   string
	Location string
}

// AppendTrackingEvent appends an operator event to the order's ledger.
// The ledger is append-only and accepts events in any order state,
// terminal states included; the embedded date and time are display
// values and never reorder the ledger.
func (s *FulfillmentService) AppendTrackingEvent(ctx context.Context, orderID uuid.UUID, input TrackingEventInput) (*models.TrackingEvent, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	event := models.TrackingEvent{
		Date:     input.Date,
		Time:     input.Time,
		Status:   input.Status,
		Location: input.Location,
	}
	if err := s.orders.AppendTrackingEvent(ctx, order.ID, &event); err != nil {
		return nil, fmt.Errorf("failed to append tracking event: %w", err)
	}

	s.loggerFromContext(ctx).Info("tracking event appended",
		"order_number", order.OrderNumber,
		"status", event.Status,
	)

	return &event, nil
}

// RecordDelivery appends an operator "Delivered" event and then moves the
// order to delivered. The event lands even when the order is already in
// a state the transition rejects; the transition error is returned so the
// operator sees it.
func (s *FulfillmentService) RecordDelivery(ctx context.Context, orderID uuid.UUID, input TrackingEventInput) (*models.Order, error) {
	if input.Status == "" {
		input.Status = "Delivered"
	}

	if _, err := s.AppendTrackingEvent(ctx, orderID, input); err != nil {
		return nil, err
	}

	return s.UpdateStatus(ctx, orderID, models.StatusDelivered)
}

// TrackingInfo is the customer-facing view of an order's shipment state.
type TrackingInfo struct {
	OrderNumber       string                 `json:"order_number"`
	Status            models.OrderStatus     `json:"status"`
	Carrier           string                 `json:"carrier,omitempty"`
	TrackingNumber    string                 `json:"tracking_number,omitempty"`
	TrackingURL       string                 `json:"tracking_url,omitempty"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery,omitempty"`
	Events            []models.TrackingEvent `json:"events"`
}

// GetTracking looks an order up by its customer-facing number and returns
// its status and ledger, oldest event first.
func (s *FulfillmentService) GetTracking(ctx context.Context, orderNumber string) (*TrackingInfo, error) {
	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	events, err := s.orders.ListTrackingEvents(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking events: %w", err)
	}

	return &TrackingInfo{
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		Carrier:           order.Carrier,
		TrackingNumber:    order.TrackingNumber,
		TrackingURL:       BuildTrackingURL(order.Carrier, order.TrackingNumber),
		EstimatedDelivery: order.EstimatedDelivery,
		Events:            events,
	}, nil
}

func (s *FulfillmentService) sendShippedEmail(ctx context.Context, order *models.Order) {
	input := OrderShipmentEmailInput{
		Carrier:        order.Carrier,
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    BuildTrackingURL(order.Carrier, order.TrackingNumber),
	}
	if order.EstimatedDelivery != nil {
		input.EstimatedDelivery = order.EstimatedDelivery.Format("January 2, 2006")
	}

	if err := s.emailSender.SendOrderShipped(ctx, order, input); err != nil {
		s.loggerFromContext(ctx).Warn("failed to send shipment email", "error", err, "order_number", order.OrderNumber)
	}
}
