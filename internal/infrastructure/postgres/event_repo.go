package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository is the read side of shipment history. Writes go through
// ShipmentRepository so they share the shipment's transaction.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM shipment_events
		WHERE shipment_id = $1
		ORDER BY timestamp DESC, seq DESC`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collect(rows, scanEvent)
}

func scanEvent(row rowScanner) (*domain.ShipmentEvent, error) {
	var e domain.ShipmentEvent
	err := row.Scan(&e.ID, &e.ShipmentID, &e.Status, &e.Location, &e.Note, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}
