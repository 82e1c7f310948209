package repository

import (
	"context"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

// ShipmentRepository owns the shipment aggregate: the shipment row and its
// event history. Every method that touches both runs in a single transaction
// so the status column never diverges from the latest event.
type ShipmentRepository interface {
	// CreateWithEvent inserts the shipment and its first event atomically.
	// Returns domain.ErrTrackingIDTaken on a tracking id collision.
	CreateWithEvent(ctx context.Context, s *domain.Shipment, first *domain.ShipmentEvent) (*domain.Shipment, *domain.ShipmentEvent, error)

	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error)

	// ListByOwner and ListAll order newest first.
	ListByOwner(ctx context.Context, userID string) ([]*domain.Shipment, error)
	ListAll(ctx context.Context) ([]*domain.Shipment, error)

	// AppendEvent locks the shipment row, lets authorize inspect it, inserts
	// ev and sets the shipment status to ev.Status. Nothing is written if
	// authorize returns an error.
	AppendEvent(ctx context.Context, trackingID string, ev *domain.ShipmentEvent, authorize func(*domain.Shipment) error) (*domain.Shipment, *domain.ShipmentEvent, error)

	// ConsumeVerificationCode marks the shipment code used when code matches
	// and has not been used yet. Errors: domain.ErrShipmentNotFound,
	// domain.ErrInvalidVerificationCode, domain.ErrVerificationCodeUsed.
	ConsumeVerificationCode(ctx context.Context, trackingID, code string) (*domain.Shipment, error)

	// Delete removes the events and then the shipment. Reports whether the
	// shipment existed.
	Delete(ctx context.Context, id string) (bool, error)
}

type EventRepository interface {
	// ListByShipment orders newest first.
	ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error)
}
