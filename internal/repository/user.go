package repository

import (
	"context"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

type UserRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error)
}
