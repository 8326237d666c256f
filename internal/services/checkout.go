package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/logging"
	"github.com/stickerlabapp/stickerlab/internal/models"
	"github.com/stickerlabapp/stickerlab/internal/observability"
	"github.com/stickerlabapp/stickerlab/internal/pricing"
)

// ErrInvalidSelection marks a product/size combination the catalog does
// not offer.
var ErrInvalidSelection = errors.New("invalid product selection")

type sizeCatalog interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetSize(ctx context.Context, sizeID uuid.UUID) (*models.Size, error)
}

type orderCreator interface {
	Create(ctx context.Context, order *models.Order) error
}

type linePricer interface {
	UnitPrice(size *models.Size, quantity int, tiers []models.QuantityTier) (decimal.Decimal, error)
	Total(size *models.Size, quantity int, tiers []models.QuantityTier, dims *pricing.Dimensions) (decimal.Decimal, error)
}

// CheckoutService prices selections and turns them into orders.
type CheckoutService struct {
	catalog     sizeCatalog
	orders      orderCreator
	pricer      linePricer
	emailSender OrderEmailSender
	logger      *slog.Logger
	now         func() time.Time
	orderNumber func(time.Time) string
}

func NewCheckoutService(catalog sizeCatalog, orders orderCreator, pricer linePricer, emailSender OrderEmailSender, logger *slog.Logger) *CheckoutService {
	if emailSender == nil {
		emailSender = noopOrderEmailSender{}
	}

	return &CheckoutService{
		catalog:     catalog,
		orders:      orders,
		pricer:      pricer,
		emailSender: emailSender,
		logger:      logger,
		now:         time.Now,
		orderNumber: NewOrderNumber,
	}
}

func (s *CheckoutService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

type QuoteInput struct {
	SizeID       uuid.UUID
	Quantity     int
	CustomWidth  *decimal.Decimal
	CustomHeight *decimal.Decimal
}

type QuoteResult struct {
	SizeID    uuid.UUID       `json:"size_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// Quote prices a selection without creating anything.
func (s *CheckoutService) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.quote",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("Quote"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	size, err := s.catalog.GetSize(ctx, input.SizeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get size: %w", err)
	}
	if !size.Active {
		return nil, fmt.Errorf("%w: size %s is not available", ErrInvalidSelection, size.ID)
	}

	dims, err := customDimensions(size, input.CustomWidth, input.CustomHeight)
	if err != nil {
		return nil, err
	}

	unit, err := s.pricer.UnitPrice(size, input.Quantity, size.Tiers)
	if err != nil {
		return nil, err
	}
	total, err := s.pricer.Total(size, input.Quantity, size.Tiers, dims)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		SizeID:    size.ID,
		Quantity:  input.Quantity,
		UnitPrice: unit,
		Total:     total,
		Currency:  "USD",
	}, nil
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	ProductID       uuid.UUID
	SizeID          uuid.UUID
	Quantity        int
	CustomWidth     *decimal.Decimal
	CustomHeight    *decimal.Decimal
}

// PlaceOrder prices the selection and creates the order in pending. The
// confirmation email is best effort; a send failure never fails the
// checkout.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.place_order",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("PlaceOrder"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)
	meter := observability.MeterFromContext(ctx)
	meter.Count("checkout.order.received", 1)
	recordFailure := func(reason string) {
		meter.Count("checkout.order.failed", 1, sentry.WithAttributes(
			attribute.String("reason", reason),
		))
	}

	product, size, err := s.resolveSelection(ctx, input.ProductID, input.SizeID)
	if err != nil {
		recordFailure("selection")
		return nil, err
	}

	dims, err := customDimensions(size, input.CustomWidth, input.CustomHeight)
	if err != nil {
		recordFailure("dimensions")
		return nil, err
	}

	total, err := s.pricer.Total(size, input.Quantity, size.Tiers, dims)
	if err != nil {
		recordFailure("pricing")
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     s.orderNumber(s.now()),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ProductID:       product.ID,
		SizeID:          size.ID,
		Quantity:        input.Quantity,
		CustomWidth:     input.CustomWidth,
		CustomHeight:    input.CustomHeight,
		TotalAmount:     total,
		Status:          models.StatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		recordFailure("store")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	meter.Count("checkout.order.created", 1)
	logger.Info("order placed",
		"order_number", order.OrderNumber,
		"product_id", product.ID,
		"size_id", size.ID,
		"quantity", order.Quantity,
		"total", order.TotalAmount.StringFixed(2),
	)

	if err := s.emailSender.SendOrderConfirmation(ctx, order, OrderConfirmationEmailInput{
		ProductName: product.Name,
		SizeName:    size.Name,
	}); err != nil {
		logger.Warn("failed to send order confirmation email", "error", err, "order_number", order.OrderNumber)
	}

	return order, nil
}

type InquiryInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	ProductID       uuid.UUID
	SizeID          uuid.UUID
	Quantity        int
	CustomWidth     *decimal.Decimal
	CustomHeight    *decimal.Decimal
}

// CreateInquiry records a contact-flow request as an order in inquiry.
// Nothing is priced; the total stays zero until an operator moves the
// order into the normal flow.
func (s *CheckoutService) CreateInquiry(ctx context.Context, input InquiryInput) (*models.Order, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.create_inquiry",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("CreateInquiry"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)

	product, size, err := s.resolveSelection(ctx, input.ProductID, input.SizeID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     s.orderNumber(s.now()),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ProductID:       product.ID,
		SizeID:          size.ID,
		Quantity:        input.Quantity,
		CustomWidth:     input.CustomWidth,
		CustomHeight:    input.CustomHeight,
		TotalAmount:     decimal.Zero,
		Status:          models.StatusInquiry,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	logger.Info("inquiry created", "order_number", order.OrderNumber, "product_id", product.ID)

	return order, nil
}

func (s *CheckoutService) resolveSelection(ctx context.Context, productID, sizeID uuid.UUID) (*models.Product, *models.Size, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !product.Active {
		return nil, nil, fmt.Errorf("%w: product %s is not available", ErrInvalidSelection, product.ID)
	}

	size, err := s.catalog.GetSize(ctx, sizeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get size: %w", err)
	}
	if size.ProductID != product.ID {
		return nil, nil, fmt.Errorf("%w: size %s does not belong to product %s", ErrInvalidSelection, size.ID, product.ID)
	}
	if !size.Active {
		return nil, nil, fmt.Errorf("%w: size %s is not available", ErrInvalidSelection, size.ID)
	}

	return product, size, nil
}

// customDimensions builds the pricing dimensions for a custom size. Fixed
// sizes pass nil through so the pricer can reject stray dimensions.
func customDimensions(size *models.Size, width, height *decimal.Decimal) (*pricing.Dimensions, error) {
	if width == nil && height == nil {
		return nil, nil
	}
	if width == nil || height == nil {
		return nil, fmt.Errorf("%w: width and height must be provided together", pricing.ErrInvalidDimensions)
	}
	if !size.IsCustom {
		return nil, fmt.Errorf("%w: size %s does not accept custom dimensions", pricing.ErrInvalidDimensions, size.ID)
	}

	return &pricing.Dimensions{Width: *width, Height: *height}, nil
}

// NewOrderNumber builds a customer-facing order number: an ST- prefix,
// the order date, and a random suffix. The stored value is never
// regenerated.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ST-%s-%04d", now.UTC().Format("20060102"), rand.IntN(10000))
}
