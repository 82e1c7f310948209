package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	errInternalServer       = "Internal server error"
	errInvalidBody          = "Invalid request body"
	errEmailTaken           = "An account with this email already exists"
	errInvalidCredentials   = "Invalid email or password"
	errUserNotFound         = "User not found"
	errShipmentNotFound     = "Shipment not found"
	errForbidden            = "You do not have access to this shipment"
	errSelfDemotion         = "You cannot remove your own admin access"
	errInvalidCode          = "Invalid verification code"
	errCodeUsed             = "Verification code has already been used"
	errCodeInvalidOrExpired = "Invalid or expired verification code"
	errPhoneRequired        = "No phone number on file"
	errInvalidChannel       = "Verification type must be email or phone"
	errInvalidStatus        = "Invalid status value"
	errTokenInvalid         = "Invalid or expired token"
)

func init() {
	// Report binding errors by their JSON names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type errorStatus struct {
	err     error
	status  int
	message string
}

// errorTable maps domain sentinels to responses. Order matters only for
// wrapped chains that match more than one entry.
var errorTable = []errorStatus{
	{domain.ErrEmailTaken, http.StatusBadRequest, errEmailTaken},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, errInvalidCredentials},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, errTokenInvalid},
	{domain.ErrUserNotFound, http.StatusNotFound, errUserNotFound},
	{domain.ErrShipmentNotFound, http.StatusNotFound, errShipmentNotFound},
	{domain.ErrForbidden, http.StatusForbidden, errForbidden},
	{domain.ErrSelfDemotion, http.StatusBadRequest, errSelfDemotion},
	{domain.ErrInvalidVerificationCode, http.StatusBadRequest, errInvalidCode},
	{domain.ErrVerificationCodeUsed, http.StatusBadRequest, errCodeUsed},
	{domain.ErrCodeInvalidOrExpired, http.StatusBadRequest, errCodeInvalidOrExpired},
	{domain.ErrPhoneRequired, http.StatusBadRequest, errPhoneRequired},
	{domain.ErrInvalidChannel, http.StatusBadRequest, errInvalidChannel},
	{domain.ErrInvalidStatus, http.StatusBadRequest, errInvalidStatus},
}

// respondError writes the response for err. Unknown errors are logged and
// reported as a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.message})
			return
		}
	}

	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

// respondBindError reports the first failing field of a ShouldBindJSON error.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldMessage(fe), "field": fe.Field()})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%s has the wrong type", typeErr.Field),
			"field": typeErr.Field,
		})
		return
	}

	if errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
