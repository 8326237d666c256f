package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `
	id, order_number, customer_name, customer_email, customer_phone,
	shipping_address, product_id, size_id, quantity,
	custom_width::text, custom_height::text, total_amount::text,
	status, carrier, tracking_number, estimated_delivery,
	created_at, updated_at
`

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (
			order_number, customer_name, customer_email, customer_phone,
			shipping_address, product_id, size_id, quantity,
			custom_width, custom_height, total_amount, status,
			carrier, tracking_number
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
		order.ProductID,
		order.SizeID,
		order.Quantity,
		decimalPtrParam(order.CustomWidth),
		decimalPtrParam(order.CustomHeight),
		order.TotalAmount.String(),
		string(order.Status),
		order.Carrier,
		order.TrackingNumber,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadTrackingEvents(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadTrackingEvents(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) List(ctx context.Context, limit int) ([]*models.Order, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (s *OrderStore) ListByStatus(ctx context.Context, status models.OrderStatus, limit int) ([]*models.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ApplyTransition persists a status change the state machine already
// applied in memory, plus the tracking events it appended. The UPDATE is
// guarded on the prior status so concurrent transitions against the same
// order serialize: the loser sees ErrTransitionConflict and nothing is
// written, including events.
func (s *OrderStore) ApplyTransition(ctx context.Context, order *models.Order, from models.OrderStatus, events []models.TrackingEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, carrier = $2, tracking_number = $3,
		    estimated_delivery = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`,
		string(order.Status),
		order.Carrier,
		order.TrackingNumber,
		order.EstimatedDelivery,
		order.ID,
		string(from),
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expected %s", ErrTransitionConflict, from)
	}

	for i := range events {
		if err := insertTrackingEvent(ctx, tx, order.ID, &events[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *OrderStore) loadTrackingEvents(ctx context.Context, order *models.Order) error {
	events, err := s.ListTrackingEvents(ctx, order.ID)
	if err != nil {
		return err
	}
	order.TrackingEvents = events
	return nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		status       string
		customWidth  *string
		customHeight *string
		totalAmount  string
	)

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.ProductID,
		&order.SizeID,
		&order.Quantity,
		&customWidth,
		&customHeight,
		&totalAmount,
		&status,
		&order.Carrier,
		&order.TrackingNumber,
		&order.EstimatedDelivery,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatus(status)
	if order.CustomWidth, err = decimalFromPtr(customWidth); err != nil {
		return nil, fmt.Errorf("invalid custom width: %w", err)
	}
	if order.CustomHeight, err = decimalFromPtr(customHeight); err != nil {
		return nil, fmt.Errorf("invalid custom height: %w", err)
	}
	if order.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	return &order, nil
}

func decimalPtrParam(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func decimalFromPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
