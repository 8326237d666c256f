package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stickerlabapp/stickerlab/internal/db"
	"github.com/stickerlabapp/stickerlab/internal/models"
)

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
	sizes    map[uuid.UUID]*models.Size
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[uuid.UUID]*models.Product),
		sizes:    make(map[uuid.UUID]*models.Size),
	}
}

func (f *fakeCatalog) addProduct(product *models.Product) {
	f.products[product.ID] = product
}

func (f *fakeCatalog) addSize(size *models.Size) {
	f.sizes[size.ID] = size
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *product
	return &copied, nil
}

func (f *fakeCatalog) GetSize(_ context.Context, sizeID uuid.UUID) (*models.Size, error) {
	size, ok := f.sizes[sizeID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *size
	return &copied, nil
}

// fakeOrderStore is an in-memory stand-in for db.OrderStore. It enforces
// the same status precondition on transitions as the guarded UPDATE.
type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*models.Order
	events     map[uuid.UUID][]models.TrackingEvent
	nextEvent  int64
	applyCalls int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]*models.Order),
		events: make(map[uuid.UUID][]models.TrackingEvent),
	}
}

func (f *fakeOrderStore) put(order *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *order
	f.orders[order.ID] = &copied
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) GetByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeOrderStore) List(_ context.Context, limit int) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Order
	for _, order := range f.orders {
		if len(out) == limit {
			break
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeOrderStore) ListByStatus(_ context.Context, status models.OrderStatus, limit int) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Order
	for _, order := range f.orders {
		if order.Status != status {
			continue
		}
		if len(out) == limit {
			break
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeOrderStore) ApplyTransition(_ context.Context, order *models.Order, from models.OrderStatus, events []models.TrackingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applyCalls++

	stored, ok := f.orders[order.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Status != from {
		return db.ErrTransitionConflict
	}

	copied := *order
	copied.TrackingEvents = nil
	f.orders[order.ID] = &copied

	for _, event := range events {
		f.nextEvent++
		event.ID = f.nextEvent
		event.OrderID = order.ID
		f.events[order.ID] = append(f.events[order.ID], event)
	}
	return nil
}

func (f *fakeOrderStore) AppendTrackingEvent(_ context.Context, orderID uuid.UUID, event *models.TrackingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.orders[orderID]; !ok {
		return pgx.ErrNoRows
	}
	f.nextEvent++
	event.ID = f.nextEvent
	event.OrderID = orderID
	f.events[orderID] = append(f.events[orderID], *event)
	return nil
}

func (f *fakeOrderStore) ListTrackingEvents(_ context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]models.TrackingEvent(nil), f.events[orderID]...), nil
}

type sentEmail struct {
	template    string
	orderNumber string
	shipment    OrderShipmentEmailInput
}

type captureEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (c *captureEmailSender) SendOrderConfirmation(_ context.Context, order *models.Order, _ OrderConfirmationEmailInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentEmail{template: "order_confirmation", orderNumber: order.OrderNumber})
	return nil
}

func (c *captureEmailSender) SendOrderShipped(_ context.Context, order *models.Order, input OrderShipmentEmailInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentEmail{template: "order_shipped", orderNumber: order.OrderNumber, shipment: input})
	return nil
}
