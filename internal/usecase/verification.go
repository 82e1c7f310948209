package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/email"
	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	"github.com/ErlanBelekov/shiptrack/internal/repository"
)

const DefaultVerificationCodeTTL = 10 * time.Minute

type VerificationUsecase struct {
	codes  repository.VerificationCodeRepository
	users  repository.UserRepository
	email  email.Sender
	ids    IDGenerator
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewVerificationUsecase(
	codes repository.VerificationCodeRepository,
	users repository.UserRepository,
	emailSender email.Sender,
	ids IDGenerator,
	ttl time.Duration,
	logger *slog.Logger,
) *VerificationUsecase {
	if ttl <= 0 {
		ttl = DefaultVerificationCodeTTL
	}
	return &VerificationUsecase{
		codes:  codes,
		users:  users,
		email:  emailSender,
		ids:    ids,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With("component", "verification_usecase"),
	}
}

// Generate mints a fresh code for the channel and hands it to the delivery
// collaborator. Earlier unused codes stay valid until they expire.
func (u *VerificationUsecase) Generate(ctx context.Context, userID, channel string) (*domain.VerificationCode, error) {
	ch, err := domain.ParseChannel(channel)
	if err != nil {
		return nil, domain.NewValidationError("type", "%s", err.Error())
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if ch == domain.ChannelPhone && user.Phone == nil {
		return nil, domain.ErrPhoneRequired
	}

	code, err := u.ids.VerificationCode()
	if err != nil {
		return nil, err
	}

	vc, err := u.codes.Create(ctx, &domain.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		Type:      ch,
		ExpiresAt: u.now().Add(u.ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	if err := u.dispatch(ctx, user, vc); err != nil {
		// An undelivered code must not stay redeemable.
		if delErr := u.codes.Delete(context.WithoutCancel(ctx), vc.ID); delErr != nil {
			u.logger.ErrorContext(ctx, "revoke undelivered code", "code_id", vc.ID, "error", delErr)
		}
		return nil, err
	}

	metrics.VerificationCodesIssuedTotal.WithLabelValues(string(ch)).Inc()
	return vc, nil
}

func (u *VerificationUsecase) dispatch(ctx context.Context, user *domain.User, vc *domain.VerificationCode) error {
	minutes := int(u.ttl.Minutes())
	switch vc.Type {
	case domain.ChannelEmail:
		subject := "Your verification code"
		body := fmt.Sprintf(
			`<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>`,
			vc.Code, minutes,
		)
		if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
			return fmt.Errorf("send verification email: %w", err)
		}
	case domain.ChannelPhone:
		// No SMS provider is wired; the code only reaches debug logs.
		u.logger.InfoContext(ctx, "sms verification code issued", "user_id", user.ID)
		u.logger.DebugContext(ctx, "sms verification code", "to", *user.Phone, "code", vc.Code)
	}
	return nil
}

// Verify consumes a matching, unused, unexpired code and marks the channel
// verified. Wrong and expired codes are reported the same way.
func (u *VerificationUsecase) Verify(ctx context.Context, userID, code, channel string) (*domain.User, error) {
	ch, err := domain.ParseChannel(channel)
	if err != nil {
		return nil, domain.NewValidationError("type", "%s", err.Error())
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "verification code is required")
	}

	user, err := u.codes.Claim(ctx, userID, code, ch, u.now())
	if err != nil {
		return nil, fmt.Errorf("claim verification code: %w", err)
	}
	return user, nil
}
