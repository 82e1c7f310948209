package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/repository"
)

type AdminUsecase struct {
	users     repository.UserRepository
	shipments repository.ShipmentRepository
	lifecycle *ShipmentUsecase
	logger    *slog.Logger
}

func NewAdminUsecase(
	users repository.UserRepository,
	shipments repository.ShipmentRepository,
	lifecycle *ShipmentUsecase,
	logger *slog.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		users:     users,
		shipments: shipments,
		lifecycle: lifecycle,
		logger:    logger.With("component", "admin_usecase"),
	}
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (u *AdminUsecase) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	list, err := u.shipments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	return list, nil
}

// SetUserAdmin grants or revokes admin access. An admin cannot revoke their
// own access, which keeps at least the acting admin in place.
func (u *AdminUsecase) SetUserAdmin(ctx context.Context, actorID, userID string, isAdmin bool) (*domain.User, error) {
	if actorID == userID && !isAdmin {
		return nil, domain.ErrSelfDemotion
	}

	user, err := u.users.SetAdmin(ctx, userID, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("set admin: %w", err)
	}

	u.logger.InfoContext(ctx, "admin flag changed", "target_user_id", userID, "is_admin", isAdmin)
	return user, nil
}

func (u *AdminUsecase) DeleteShipment(ctx context.Context, id string) error {
	deleted, err := u.shipments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	if !deleted {
		return domain.ErrShipmentNotFound
	}

	u.logger.InfoContext(ctx, "shipment deleted", "shipment_id", id)
	return nil
}

// CreateShipment creates a shipment owned by the acting admin, including the
// one-time verification code.
func (u *AdminUsecase) CreateShipment(ctx context.Context, actor domain.Identity, input CreateShipmentInput) (*CreatedShipment, error) {
	return u.lifecycle.CreateShipment(ctx, input, actor.ID, true)
}
