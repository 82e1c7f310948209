package repository

import (
	"context"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

type ServiceRepository interface {
	// List orders by price ascending.
	List(ctx context.Context) ([]*domain.ShippingService, error)
	GetByID(ctx context.Context, id string) (*domain.ShippingService, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
}
