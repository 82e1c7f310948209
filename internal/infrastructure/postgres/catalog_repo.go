package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) List(ctx context.Context) ([]*domain.ShippingService, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price::text, description FROM shipping_services ORDER BY price ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return collect(rows, scanService)
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*domain.ShippingService, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, price::text, description FROM shipping_services WHERE id = $1`, id)
	return scanService(row)
}

func scanService(row rowScanner) (*domain.ShippingService, error) {
	var s domain.ShippingService
	if err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("scan service: %w", err)
	}
	return &s, nil
}

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	var out domain.Subscription
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (tracking_number, phone_number)
		VALUES ($1, $2)
		RETURNING id, tracking_number, phone_number, created_at`,
		s.TrackingNumber, s.PhoneNumber,
	).Scan(&out.ID, &out.TrackingNumber, &out.PhoneNumber, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return &out, nil
}
