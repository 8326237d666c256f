package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusProcessing   OrderStatus = "processing"
	StatusInProduction OrderStatus = "in_production"
	StatusShipped      OrderStatus = "shipped"
	StatusDelivered    OrderStatus = "delivered"
	StatusCancelled    OrderStatus = "cancelled"
	StatusInquiry      OrderStatus = "inquiry"
)

// AllStatuses lists every fulfillment status an order can hold.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusInProduction,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusInquiry,
}

// Valid reports whether s is one of the known fulfillment statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID                uuid.UUID        `json:"id"`
	OrderNumber       string           `json:"order_number"`
	CustomerName      string           `json:"customer_name"`
	CustomerEmail     string           `json:"customer_email"`
	CustomerPhone     string           `json:"customer_phone"`
	ShippingAddress   string           `json:"shipping_address"`
	ProductID         uuid.UUID        `json:"product_id"`
	SizeID            uuid.UUID        `json:"size_id"`
	Quantity          int              `json:"quantity"`
	CustomWidth       *decimal.Decimal `json:"custom_width,omitempty"`
	CustomHeight      *decimal.Decimal `json:"custom_height,omitempty"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Status            OrderStatus      `json:"status"`
	Carrier           string           `json:"carrier"`
	TrackingNumber    string           `json:"tracking_number"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery,omitempty"`
	TrackingEvents    []TrackingEvent  `json:"tracking_events,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// TrackingEvent is one entry in an order's shipment history. Date and Time
// are operator-supplied display values; the ledger orders events by
// insertion, never by these fields.
type TrackingEvent struct {
	ID        int64     `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}
