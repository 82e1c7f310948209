package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/repository"
)

const minSubscriptionPhoneLength = 10

type CatalogUsecase struct {
	services repository.ServiceRepository
}

func NewCatalogUsecase(services repository.ServiceRepository) *CatalogUsecase {
	return &CatalogUsecase{services: services}
}

func (u *CatalogUsecase) ListServices(ctx context.Context) ([]*domain.ShippingService, error) {
	list, err := u.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return list, nil
}

type SubscriptionUsecase struct {
	subscriptions repository.SubscriptionRepository
	shipments     repository.ShipmentRepository
	logger        *slog.Logger
}

func NewSubscriptionUsecase(
	subscriptions repository.SubscriptionRepository,
	shipments repository.ShipmentRepository,
	logger *slog.Logger,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptions: subscriptions,
		shipments:     shipments,
		logger:        logger.With("component", "subscription_usecase"),
	}
}

// Subscribe records an SMS opt-in. No message is sent.
func (u *SubscriptionUsecase) Subscribe(ctx context.Context, trackingNumber, phone string) (*domain.Subscription, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	phone = strings.TrimSpace(phone)
	if trackingNumber == "" {
		return nil, domain.NewValidationError("trackingNumber", "tracking number is required")
	}
	if len(phone) < minSubscriptionPhoneLength {
		return nil, domain.NewValidationError("phoneNumber", "phone number must be at least %d characters", minSubscriptionPhoneLength)
	}

	if _, err := u.shipments.GetByTrackingID(ctx, trackingNumber); err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	sub, err := u.subscriptions.Create(ctx, &domain.Subscription{
		TrackingNumber: trackingNumber,
		PhoneNumber:    phone,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	u.logger.InfoContext(ctx, "sms subscription recorded", "tracking_id", trackingNumber)
	return sub, nil
}
