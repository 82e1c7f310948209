package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/middleware"
	"github.com/ErlanBelekov/shiptrack/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type adminUsecaser interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)
	SetUserAdmin(ctx context.Context, actorID, userID string, isAdmin bool) (*domain.User, error)
	DeleteShipment(ctx context.Context, id string) error
	CreateShipment(ctx context.Context, actor domain.Identity, input usecase.CreateShipmentInput) (*usecase.CreatedShipment, error)
}

type AdminHandler struct {
	admin  adminUsecaser
	logger *slog.Logger
}

func NewAdminHandler(admin adminUsecaser, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger.With("component", "admin_handler")}
}

type updateUserRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "admin list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": mapAll(users, toUserResponse)})
}

// GET /api/admin/shipments
func (h *AdminHandler) ListShipments(c *gin.Context) {
	list, err := h.admin.ListShipments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "admin list shipments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipments": mapAll(list, toShipmentResponse)})
}

// POST /api/admin/shipments
// The only response that ever includes the shipment verification code.
func (h *AdminHandler) CreateShipment(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, _ := middleware.CurrentIdentity(c)
	out, err := h.admin.CreateShipment(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, h.logger, "admin create shipment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"shipment":         toShipmentResponse(out.Shipment),
		"verificationCode": out.VerificationCode,
	})
}

// PATCH /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.admin.SetUserAdmin(c.Request.Context(), c.GetString(middleware.UserIDKey), userID, *req.IsAdmin)
	if err != nil {
		respondError(c, h.logger, "admin update user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// DELETE /api/admin/shipments/:id
func (h *AdminHandler) DeleteShipment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errShipmentNotFound})
		return
	}

	if err := h.admin.DeleteShipment(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "admin delete shipment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
