package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

// Tracking events are append-only. There is no UPDATE or DELETE here on
// purpose: a ledger row, once written, is history. Reads order by the
// insertion id, never by the operator-supplied date/time fields.

// queryRower is satisfied by both the pool and a transaction so appends
// can ride inside a guarded transition.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertTrackingEvent(ctx context.Context, q queryRower, orderID uuid.UUID, event *models.TrackingEvent) error {
	event.OrderID = orderID
	return q.QueryRow(ctx, `
		INSERT INTO tracking_events (order_id, event_date, event_time, status, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, orderID, event.Date, event.Time, event.Status, event.Location).Scan(&event.ID, &event.CreatedAt)
}

// AppendTrackingEvent writes one ledger entry and fills in its assigned
// id and creation time.
func (s *OrderStore) AppendTrackingEvent(ctx context.Context, orderID uuid.UUID, event *models.TrackingEvent) error {
	return insertTrackingEvent(ctx, s.pool, orderID, event)
}

func (s *OrderStore) ListTrackingEvents(ctx context.Context, orderID uuid.UUID) ([]models.TrackingEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, event_date, event_time, status, location, created_at
		FROM tracking_events
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.TrackingEvent
	for rows.Next() {
		var event models.TrackingEvent
		if err := rows.Scan(&event.ID, &event.OrderID, &event.Date, &event.Time, &event.Status, &event.Location, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
