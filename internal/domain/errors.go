package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrForbidden          = errors.New("forbidden")
	ErrSelfDemotion       = errors.New("admins cannot remove their own admin access")

	ErrShipmentNotFound        = errors.New("shipment not found")
	ErrTrackingIDTaken         = errors.New("tracking id already exists")
	ErrInvalidStatus           = errors.New("invalid shipment status")
	ErrServiceNotFound         = errors.New("shipping service not found")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationCodeUsed    = errors.New("verification code has already been used")

	ErrCodeInvalidOrExpired = errors.New("invalid or expired verification code")
	ErrInvalidChannel       = errors.New("verification type must be email or phone")
	ErrPhoneRequired        = errors.New("no phone number on file")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
