package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VerificationCodeRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationCodeRepository(pool *pgxpool.Pool) *VerificationCodeRepository {
	return &VerificationCodeRepository{pool: pool}
}

func (r *VerificationCodeRepository) Create(ctx context.Context, vc *domain.VerificationCode) (*domain.VerificationCode, error) {
	var out domain.VerificationCode
	err := r.pool.QueryRow(ctx, `
		INSERT INTO verification_codes (user_id, code, type, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, code, type, is_used, expires_at, created_at`,
		vc.UserID, vc.Code, vc.Type, vc.ExpiresAt,
	).Scan(&out.ID, &out.UserID, &out.Code, &out.Type, &out.IsUsed, &out.ExpiresAt, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert verification code: %w", err)
	}
	return &out, nil
}

// Claim consumes the code and flips the user's verified flag in the same
// transaction; a crash between the two leaves neither applied.
func (r *VerificationCodeRepository) Claim(ctx context.Context, userID, code string, channel domain.Channel, now time.Time) (*domain.User, error) {
	var flagQuery string
	switch channel {
	case domain.ChannelEmail:
		flagQuery = `UPDATE users SET email_verified = TRUE WHERE id = $1 RETURNING ` + userColumns
	case domain.ChannelPhone:
		flagQuery = `UPDATE users SET phone_verified = TRUE WHERE id = $1 RETURNING ` + userColumns
	default:
		return nil, domain.ErrInvalidChannel
	}

	var user *domain.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `
			UPDATE verification_codes
			SET    is_used = TRUE
			WHERE  id = (
				SELECT id FROM verification_codes
				WHERE  user_id    = $1
				  AND  code       = $2
				  AND  type       = $3
				  AND  NOT is_used
				  AND  expires_at > $4
				ORDER BY created_at DESC
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id`,
			userID, code, channel, now,
		).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrCodeInvalidOrExpired
			}
			return fmt.Errorf("claim code: %w", err)
		}

		user, err = scanUser(tx.QueryRow(ctx, flagQuery, userID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *VerificationCodeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM verification_codes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

func (r *VerificationCodeRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM verification_codes
		WHERE expires_at < $1
		   OR (is_used AND created_at < $1)`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale codes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
