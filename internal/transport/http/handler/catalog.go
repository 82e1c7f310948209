package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/gin-gonic/gin"
)

type catalogUsecaser interface {
	ListServices(ctx context.Context) ([]*domain.ShippingService, error)
}

type subscriptionUsecaser interface {
	Subscribe(ctx context.Context, trackingNumber, phone string) (*domain.Subscription, error)
}

type CatalogHandler struct {
	catalog       catalogUsecaser
	subscriptions subscriptionUsecaser
	logger        *slog.Logger
}

func NewCatalogHandler(catalog catalogUsecaser, subscriptions subscriptionUsecaser, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:       catalog,
		subscriptions: subscriptions,
		logger:        logger.With("component", "catalog_handler"),
	}
}

type subscribeRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
	PhoneNumber    string `json:"phoneNumber"    binding:"required,min=10"`
}

// GET /api/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list services", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": mapAll(list, func(s *domain.ShippingService) serviceResponse {
		return serviceResponse{ID: s.ID, Name: s.Name, Price: s.Price, Description: s.Description}
	})})
}

// POST /api/subscriptions
func (h *CatalogHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), req.TrackingNumber, req.PhoneNumber)
	if err != nil {
		respondError(c, h.logger, "subscribe", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": subscriptionResponse{
		ID:             sub.ID,
		TrackingNumber: sub.TrackingNumber,
		PhoneNumber:    sub.PhoneNumber,
		CreatedAt:      sub.CreatedAt,
	}})
}
