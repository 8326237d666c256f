package services

import (
	"context"

	"github.com/stickerlabapp/stickerlab/internal/email"
	"github.com/stickerlabapp/stickerlab/internal/models"
)

// OrderEmailSender sends customer-facing order notifications.
type OrderEmailSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, input OrderConfirmationEmailInput) error
	SendOrderShipped(ctx context.Context, order *models.Order, input OrderShipmentEmailInput) error
}

type OrderConfirmationEmailInput struct {
	ProductName string
	SizeName    string
}

type OrderShipmentEmailInput struct {
	Carrier           string
	TrackingNumber    string
	TrackingURL       string
	EstimatedDelivery string
}

// StorefrontEmailSender renders notifications for the single configured
// storefront and hands them to the email provider. A nil provider means
// email is disabled and every send is a no-op.
type StorefrontEmailSender struct {
	provider email.Provider
	shopName string
}

func NewStorefrontEmailSender(provider email.Provider, shopName string) *StorefrontEmailSender {
	return &StorefrontEmailSender{
		provider: provider,
		shopName: shopName,
	}
}

func (s *StorefrontEmailSender) SendOrderConfirmation(ctx context.Context, order *models.Order, input OrderConfirmationEmailInput) error {
	info := s.orderInfo(order)
	info.ProductName = input.ProductName
	info.SizeName = input.SizeName

	return email.SendOrderConfirmation(ctx, s.provider, info)
}

func (s *StorefrontEmailSender) SendOrderShipped(ctx context.Context, order *models.Order, input OrderShipmentEmailInput) error {
	info := s.orderInfo(order)
	info.Carrier = input.Carrier
	info.TrackingNumber = input.TrackingNumber
	info.TrackingURL = input.TrackingURL
	info.EstimatedDelivery = input.EstimatedDelivery

	return email.SendOrderShipped(ctx, s.provider, info)
}

func (s *StorefrontEmailSender) orderInfo(order *models.Order) *email.OrderInfo {
	return &email.OrderInfo{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		ShopName:      s.shopName,
		Quantity:      order.Quantity,
		Total:         "$" + order.TotalAmount.StringFixed(2),
	}
}

type noopOrderEmailSender struct{}

func (noopOrderEmailSender) SendOrderConfirmation(context.Context, *models.Order, OrderConfirmationEmailInput) error {
	return nil
}

func (noopOrderEmailSender) SendOrderShipped(context.Context, *models.Order, OrderShipmentEmailInput) error {
	return nil
}
