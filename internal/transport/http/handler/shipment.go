package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/middleware"
	"github.com/ErlanBelekov/shiptrack/internal/usecase"
	"github.com/gin-gonic/gin"
)

type shipmentUsecaser interface {
	CreateShipment(ctx context.Context, input usecase.CreateShipmentInput, ownerID string, asAdmin bool) (*usecase.CreatedShipment, error)
	ListByOwner(ctx context.Context, userID string) ([]*domain.Shipment, error)
	Track(ctx context.Context, trackingID string) (*usecase.TrackingResult, error)
	AppendEvent(ctx context.Context, actor domain.Identity, input usecase.AppendEventInput) (*domain.Shipment, *domain.ShipmentEvent, error)
	ConsumeVerificationCode(ctx context.Context, trackingID, code string) (*domain.Shipment, error)
}

type ShipmentHandler struct {
	shipments shipmentUsecaser
	logger    *slog.Logger
}

func NewShipmentHandler(shipments shipmentUsecaser, logger *slog.Logger) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, logger: logger.With("component", "shipment_handler")}
}

type createShipmentRequest struct {
	SenderName    string   `json:"senderName"    binding:"required"`
	RecipientName string   `json:"recipientName" binding:"required"`
	Origin        string   `json:"origin"        binding:"required"`
	Destination   string   `json:"destination"   binding:"required"`
	WeightKg      *float64 `json:"weightKg"      binding:"omitempty,gt=0"`
	ServiceID     *string  `json:"serviceId"`
}

func (r createShipmentRequest) input() usecase.CreateShipmentInput {
	return usecase.CreateShipmentInput{
		SenderName:    r.SenderName,
		RecipientName: r.RecipientName,
		Origin:        r.Origin,
		Destination:   r.Destination,
		WeightKg:      r.WeightKg,
		ServiceID:     r.ServiceID,
	}
}

type appendEventRequest struct {
	Status   string  `json:"status"   binding:"required"`
	Location string  `json:"location" binding:"required"`
	Note     *string `json:"note"`
}

type verifyShipmentRequest struct {
	Code string `json:"code" binding:"required"`
}

// POST /api/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req createShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.shipments.CreateShipment(c.Request.Context(), req.input(), c.GetString(middleware.UserIDKey), false)
	if err != nil {
		respondError(c, h.logger, "create shipment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shipment": toShipmentResponse(out.Shipment)})
}

// GET /api/shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	list, err := h.shipments.ListByOwner(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, h.logger, "list shipments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipments": mapAll(list, toShipmentResponse)})
}

// GET /api/shipments/track/:trackingId
// Public: anyone holding the tracking id can see the timeline.
func (h *ShipmentHandler) Track(c *gin.Context) {
	res, err := h.shipments.Track(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		respondError(c, h.logger, "track shipment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shipment": toShipmentResponse(res.Shipment),
		"events":   mapAll(res.Events, toEventResponse),
	})
}

// POST /api/shipments/:trackingId/verify
func (h *ShipmentHandler) Verify(c *gin.Context) {
	var req verifyShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	s, err := h.shipments.ConsumeVerificationCode(c.Request.Context(), c.Param("trackingId"), req.Code)
	if err != nil {
		respondError(c, h.logger, "verify shipment code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Shipment verified",
		"shipment": toShipmentResponse(s),
	})
}

// POST /api/shipments/:trackingId/event
func (h *ShipmentHandler) AppendEvent(c *gin.Context) {
	var req appendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, _ := middleware.CurrentIdentity(c)
	s, ev, err := h.shipments.AppendEvent(c.Request.Context(), actor, usecase.AppendEventInput{
		TrackingID: c.Param("trackingId"),
		Status:     req.Status,
		Location:   req.Location,
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, h.logger, "append shipment event", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"shipment": toShipmentResponse(s),
		"event":    toEventResponse(ev),
	})
}
