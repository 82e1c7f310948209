package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type verificationUsecaser interface {
	Generate(ctx context.Context, userID, channel string) (*domain.VerificationCode, error)
	Verify(ctx context.Context, userID, code, channel string) (*domain.User, error)
}

type VerificationHandler struct {
	verification verificationUsecaser
	logger       *slog.Logger
}

func NewVerificationHandler(verification verificationUsecaser, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
		logger:       logger.With("component", "verification_handler"),
	}
}

type generateCodeRequest struct {
	Type string `json:"type" binding:"required,oneof=email phone"`
}

type verifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
	Type string `json:"type" binding:"required,oneof=email phone"`
}

// POST /api/verification/generate
// The code itself is never echoed back; it goes out through the channel.
func (h *VerificationHandler) Generate(c *gin.Context) {
	var req generateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vc, err := h.verification.Generate(c.Request.Context(), c.GetString(middleware.UserIDKey), req.Type)
	if err != nil {
		respondError(c, h.logger, "generate verification code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification code sent to your " + string(vc.Type),
		"expiresAt": vc.ExpiresAt,
	})
}

// POST /api/verification/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.verification.Verify(c.Request.Context(), c.GetString(middleware.UserIDKey), req.Code, req.Type)
	if err != nil {
		respondError(c, h.logger, "verify code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification successful",
		"user":    toUserResponse(user),
	})
}
