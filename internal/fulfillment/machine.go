package fulfillment

// Package fulfillment drives an order's status through its legal
// transitions and maintains the append-only shipment-tracking ledger.

import (
	"errors"
	"fmt"
	"time"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrTerminalState     = errors.New("order is in a terminal state")
	ErrUnknownStatus     = errors.New("unknown order status")
)

const (
	// DefaultCarrier is assigned when an order ships without explicit
	// carrier details.
	DefaultCarrier = "USPS"

	// EstimatedDeliveryOffset is added to the ship time to produce the
	// estimated delivery date.
	EstimatedDeliveryOffset = 7 * 24 * time.Hour

	shippedEventStatus   = "Order shipped"
	shippedEventLocation = "Warehouse"
)

// transitions is the closed table of legal status changes. Delivered and
// cancelled appear only as targets: they are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:      {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing:   {models.StatusInProduction, models.StatusShipped, models.StatusCancelled},
	models.StatusInProduction: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:      {models.StatusDelivered},
	models.StatusInquiry:      {models.StatusPending, models.StatusCancelled},
}

// CanTransition reports whether from -> to is in the transition table.
// A status never transitions to itself through the table; callers treat
// re-application as a no-op.
func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is accepted from s.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// Result describes what a transition did. AppendedEvents holds the
// tracking events the transition added to the order's ledger, in append
// order, so callers can persist exactly those rows.
type Result struct {
	From           models.OrderStatus
	To             models.OrderStatus
	Changed        bool
	AppendedEvents []models.TrackingEvent
}

// Machine applies fulfillment-status transitions to in-memory orders.
// It is pure apart from the injected clock and tracking-number source;
// persistence is the caller's concern.
type Machine struct {
	now            func() time.Time
	trackingNumber func() string
}

type Option func(*Machine)

// WithClock overrides the machine's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTrackingNumberSource overrides how tracking numbers are synthesized.
func WithTrackingNumberSource(gen func() string) Option {
	return func(m *Machine) {
		if gen != nil {
			m.trackingNumber = gen
		}
	}
}

func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		now:            time.Now,
		trackingNumber: NewTrackingNumber,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transition moves order to the target status, appending any side-effect
// tracking events. On failure the order is left untouched. Re-applying
// the order's current status succeeds without changing anything.
func (m *Machine) Transition(order *models.Order, target models.OrderStatus) (*Result, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	from := order.Status
	if !from.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}

	if from == target {
		return &Result{From: from, To: target, Changed: false}, nil
	}

	if IsTerminal(from) {
		return nil, fmt.Errorf("%w: cannot move %s order %s to %s", ErrTerminalState, from, order.OrderNumber, target)
	}
	if !CanTransition(from, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, target)
	}

	now := m.now()
	result := &Result{From: from, To: target, Changed: true}

	order.Status = target
	order.UpdatedAt = now

	if target == models.StatusShipped {
		result.AppendedEvents = append(result.AppendedEvents, m.markShipped(order, now))
	}

	return result, nil
}

// markShipped fills in carrier details on first entry into shipped and
// records the warehouse ledger entry.
func (m *Machine) markShipped(order *models.Order, now time.Time) models.TrackingEvent {
	if order.TrackingNumber == "" {
		order.TrackingNumber = m.trackingNumber()
	}
	if order.Carrier == "" {
		order.Carrier = DefaultCarrier
	}
	estimated := now.Add(EstimatedDeliveryOffset)
	order.EstimatedDelivery = &estimated

	event := models.TrackingEvent{
		OrderID:   order.ID,
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04"),
		Status:    shippedEventStatus,
		Location:  shippedEventLocation,
		CreatedAt: now,
	}
	Append(order, event)
	return event
}
