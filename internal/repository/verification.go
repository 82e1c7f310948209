package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, vc *domain.VerificationCode) (*domain.VerificationCode, error)

	// Claim atomically marks the newest unused, unexpired code matching
	// (userID, code, channel) as used and sets the matching verified flag on
	// the user. Returns domain.ErrCodeInvalidOrExpired when nothing matches.
	Claim(ctx context.Context, userID, code string, channel domain.Channel, now time.Time) (*domain.User, error)

	// Delete removes a single code. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteStale removes codes that were used or expired before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}
