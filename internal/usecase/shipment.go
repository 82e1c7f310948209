package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/ErlanBelekov/shiptrack/internal/repository"
	"github.com/google/uuid"
)

// maxTrackingIDAttempts bounds regeneration after tracking id collisions.
const maxTrackingIDAttempts = 5

type ShipmentUsecase struct {
	shipments repository.ShipmentRepository
	events    repository.EventRepository
	services  repository.ServiceRepository
	ids       IDGenerator
	logger    *slog.Logger
}

func NewShipmentUsecase(
	shipments repository.ShipmentRepository,
	events repository.EventRepository,
	services repository.ServiceRepository,
	ids IDGenerator,
	logger *slog.Logger,
) *ShipmentUsecase {
	return &ShipmentUsecase{
		shipments: shipments,
		events:    events,
		services:  services,
		ids:       ids,
		logger:    logger.With("component", "shipment_usecase"),
	}
}

type CreateShipmentInput struct {
	SenderName    string
	RecipientName string
	Origin        string
	Destination   string
	WeightKg      *float64
	ServiceID     *string
}

type CreatedShipment struct {
	Shipment *domain.Shipment
	Event    *domain.ShipmentEvent
	// VerificationCode is only set for admin-created shipments. This is the
	// one chance to hand it out.
	VerificationCode string
}

type TrackingResult struct {
	Shipment *domain.Shipment
	Events   []*domain.ShipmentEvent
}

func (in *CreateShipmentInput) normalize() error {
	in.SenderName = strings.TrimSpace(in.SenderName)
	in.RecipientName = strings.TrimSpace(in.RecipientName)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)

	switch {
	case in.SenderName == "":
		return domain.NewValidationError("senderName", "sender name is required")
	case in.RecipientName == "":
		return domain.NewValidationError("recipientName", "recipient name is required")
	case in.Origin == "":
		return domain.NewValidationError("origin", "origin is required")
	case in.Destination == "":
		return domain.NewValidationError("destination", "destination is required")
	case in.WeightKg != nil && *in.WeightKg <= 0:
		return domain.NewValidationError("weightKg", "weight must be a positive number")
	}

	if in.ServiceID != nil {
		id := strings.TrimSpace(*in.ServiceID)
		if id == "" {
			in.ServiceID = nil
			return nil
		}
		// Service ids are uuids; anything else can never match a row.
		if _, err := uuid.Parse(id); err != nil {
			return domain.NewValidationError("serviceId", "unknown shipping service")
		}
		in.ServiceID = &id
	}
	return nil
}

// CreateShipment stores a new shipment with status Created together with its
// first event. Admin-created shipments also get a one-time verification code.
func (u *ShipmentUsecase) CreateShipment(ctx context.Context, input CreateShipmentInput, ownerID string, asAdmin bool) (*CreatedShipment, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	if input.ServiceID != nil {
		if _, err := u.services.GetByID(ctx, *input.ServiceID); err != nil {
			if errors.Is(err, domain.ErrServiceNotFound) {
				return nil, domain.NewValidationError("serviceId", "unknown shipping service")
			}
			return nil, fmt.Errorf("get service: %w", err)
		}
	}

	var code *string
	if asAdmin {
		c, err := u.ids.VerificationCode()
		if err != nil {
			return nil, err
		}
		code = &c
	}

	note := domain.FirstEventNote
	first := &domain.ShipmentEvent{
		Status:   domain.StatusCreated,
		Location: input.Origin,
		Note:     &note,
	}

	for attempt := 1; ; attempt++ {
		trackingID, err := u.ids.TrackingID()
		if err != nil {
			return nil, err
		}

		s := &domain.Shipment{
			TrackingID:       trackingID,
			SenderName:       input.SenderName,
			RecipientName:    input.RecipientName,
			Origin:           input.Origin,
			Destination:      input.Destination,
			WeightKg:         input.WeightKg,
			Status:           domain.StatusCreated,
			ServiceID:        input.ServiceID,
			VerificationCode: code,
			CreatedByID:      ownerID,
		}

		created, event, err := u.shipments.CreateWithEvent(ctx, s, first)
		if errors.Is(err, domain.ErrTrackingIDTaken) && attempt < maxTrackingIDAttempts {
			u.logger.WarnContext(ctx, "tracking id collision, regenerating", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create shipment: %w", err)
		}

		metrics.ShipmentsCreatedTotal.WithLabelValues(creatorLabel(asAdmin)).Inc()
		out := &CreatedShipment{Shipment: created, Event: event}
		if code != nil {
			out.VerificationCode = *code
		}
		return out, nil
	}
}

func (u *ShipmentUsecase) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	s, err := u.shipments.GetByTrackingID(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}

// Track is the public lookup: the shipment plus its history, newest first.
func (u *ShipmentUsecase) Track(ctx context.Context, trackingID string) (*TrackingResult, error) {
	s, err := u.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	events, err := u.Events(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &TrackingResult{Shipment: s, Events: events}, nil
}

func (u *ShipmentUsecase) ListByOwner(ctx context.Context, userID string) ([]*domain.Shipment, error) {
	list, err := u.shipments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return list, nil
}

func (u *ShipmentUsecase) Events(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error) {
	events, err := u.events.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

type AppendEventInput struct {
	TrackingID string
	Status     string
	Location   string
	Note       *string
}

// AppendEvent records a status change and syncs the shipment status. Only
// the owner or an admin may append.
func (u *ShipmentUsecase) AppendEvent(ctx context.Context, actor domain.Identity, input AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, nil, domain.NewValidationError("status", "status must be one of %s", statusList())
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, nil, domain.NewValidationError("location", "location is required")
	}

	var note *string
	if input.Note != nil {
		if n := strings.TrimSpace(*input.Note); n != "" {
			note = &n
		}
	}

	ev := &domain.ShipmentEvent{Status: status, Location: location, Note: note}
	authorize := func(s *domain.Shipment) error {
		if actor.IsAdmin || s.OwnedBy(actor.ID) {
			return nil
		}
		return domain.ErrForbidden
	}

	s, event, err := u.shipments.AppendEvent(ctx, strings.TrimSpace(input.TrackingID), ev, authorize)
	if err != nil {
		return nil, nil, fmt.Errorf("append event: %w", err)
	}

	metrics.ShipmentEventsTotal.WithLabelValues(string(event.Status)).Inc()
	return s, event, nil
}

// ConsumeVerificationCode burns the shipment's one-time code. A code that
// was already used is rejected even when it matches.
func (u *ShipmentUsecase) ConsumeVerificationCode(ctx context.Context, trackingID, code string) (*domain.Shipment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "verification code is required")
	}

	s, err := u.shipments.ConsumeVerificationCode(ctx, strings.TrimSpace(trackingID), code)
	if err != nil {
		return nil, fmt.Errorf("consume verification code: %w", err)
	}
	return s, nil
}

func creatorLabel(asAdmin bool) string {
	if asAdmin {
		return "admin"
	}
	return "user"
}

func statusList() string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
