package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shipmentColumns = `id, tracking_id, sender_name, recipient_name, origin, destination,
	weight_kg, status, service_id, verification_code, verification_code_used,
	created_by_id, created_at`

const eventColumns = `id, shipment_id, status, location, note, timestamp`

type ShipmentRepository struct {
	pool *pgxpool.Pool
}

func NewShipmentRepository(pool *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: pool}
}

// CreateWithEvent writes the shipment and its first event in one transaction
// so a shipment never exists without history.
func (r *ShipmentRepository) CreateWithEvent(ctx context.Context, s *domain.Shipment, first *domain.ShipmentEvent) (*domain.Shipment, *domain.ShipmentEvent, error) {
	var (
		created *domain.Shipment
		event   *domain.ShipmentEvent
	)

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO shipments (
				tracking_id, sender_name, recipient_name, origin, destination,
				weight_kg, status, service_id, verification_code, created_by_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+shipmentColumns,
			s.TrackingID, s.SenderName, s.RecipientName, s.Origin, s.Destination,
			s.WeightKg, s.Status, s.ServiceID, s.VerificationCode, s.CreatedByID,
		)

		var err error
		created, err = scanShipment(row)
		if err != nil {
			if uniqueViolation(err, "shipments_tracking_id_key") {
				return domain.ErrTrackingIDTaken
			}
			return fmt.Errorf("insert shipment: %w", err)
		}

		event, err = insertEvent(ctx, tx, created.ID, first)
		if err != nil {
			return fmt.Errorf("insert first event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, event, nil
}

func (r *ShipmentRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE tracking_id = $1`, trackingID)
	return scanShipment(row)
}

func (r *ShipmentRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Shipment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+shipmentColumns+`
		FROM shipments
		WHERE created_by_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list shipments by owner: %w", err)
	}
	return collect(rows, scanShipment)
}

func (r *ShipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return collect(rows, scanShipment)
}

// AppendEvent holds a row lock on the shipment for the whole transaction, so
// concurrent appends to one shipment serialize and the status column always
// reflects the last committed event.
func (r *ShipmentRepository) AppendEvent(ctx context.Context, trackingID string, ev *domain.ShipmentEvent, authorize func(*domain.Shipment) error) (*domain.Shipment, *domain.ShipmentEvent, error) {
	var (
		updated *domain.Shipment
		event   *domain.ShipmentEvent
	)

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := scanShipment(tx.QueryRow(ctx,
			`SELECT `+shipmentColumns+` FROM shipments WHERE tracking_id = $1 FOR UPDATE`,
			trackingID))
		if err != nil {
			return err
		}

		if authorize != nil {
			if err := authorize(current); err != nil {
				return err
			}
		}

		event, err = insertEvent(ctx, tx, current.ID, ev)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		updated, err = scanShipment(tx.QueryRow(ctx,
			`UPDATE shipments SET status = $2 WHERE id = $1 RETURNING `+shipmentColumns,
			current.ID, event.Status))
		if err != nil {
			return fmt.Errorf("sync status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, event, nil
}

func (r *ShipmentRepository) ConsumeVerificationCode(ctx context.Context, trackingID, code string) (*domain.Shipment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE shipments
		SET    verification_code_used = TRUE
		WHERE  tracking_id = $1
		  AND  verification_code = $2
		  AND  NOT verification_code_used
		RETURNING `+shipmentColumns,
		trackingID, code)

	s, err := scanShipment(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrShipmentNotFound) {
		return nil, err
	}

	// Nothing updated: work out why.
	current, err := r.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if current.VerificationCode == nil || *current.VerificationCode != code {
		return nil, domain.ErrInvalidVerificationCode
	}
	return nil, domain.ErrVerificationCodeUsed
}

func (r *ShipmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM shipment_events WHERE shipment_id = $1`, id); err != nil {
			return fmt.Errorf("delete events: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete shipment: %w", err)
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, shipmentID string, ev *domain.ShipmentEvent) (*domain.ShipmentEvent, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO shipment_events (shipment_id, status, location, note)
		VALUES ($1, $2, $3, $4)
		RETURNING `+eventColumns,
		shipmentID, ev.Status, ev.Location, ev.Note)
	return scanEvent(row)
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(
		&s.ID, &s.TrackingID, &s.SenderName, &s.RecipientName, &s.Origin, &s.Destination,
		&s.WeightKg, &s.Status, &s.ServiceID, &s.VerificationCode, &s.VerificationCodeUsed,
		&s.CreatedByID, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	return &s, nil
}
