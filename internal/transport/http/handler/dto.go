package handler

import (
	"time"

	"github.com/ErlanBelekov/shiptrack/internal/domain"
)

// userResponse never carries the password hash.
type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	EmailVerified bool      `json:"emailVerified"`
	PhoneVerified bool      `json:"phoneVerified"`
	IsAdmin       bool      `json:"isAdmin"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		IsAdmin:       u.IsAdmin,
		CreatedAt:     u.CreatedAt,
	}
}

// shipmentResponse leaves out the verification code.
type shipmentResponse struct {
	ID                   string        `json:"id"`
	TrackingID           string        `json:"trackingId"`
	SenderName           string        `json:"senderName"`
	RecipientName        string        `json:"recipientName"`
	Origin               string        `json:"origin"`
	Destination          string        `json:"destination"`
	WeightKg             *float64      `json:"weightKg"`
	Status               domain.Status `json:"status"`
	ServiceID            *string       `json:"serviceId"`
	VerificationCodeUsed bool          `json:"verificationCodeUsed"`
	CreatedByID          string        `json:"createdById"`
	CreatedAt            time.Time     `json:"createdAt"`
}

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	return shipmentResponse{
		ID:                   s.ID,
		TrackingID:           s.TrackingID,
		SenderName:           s.SenderName,
		RecipientName:        s.RecipientName,
		Origin:               s.Origin,
		Destination:          s.Destination,
		WeightKg:             s.WeightKg,
		Status:               s.Status,
		ServiceID:            s.ServiceID,
		VerificationCodeUsed: s.VerificationCodeUsed,
		CreatedByID:          s.CreatedByID,
		CreatedAt:            s.CreatedAt,
	}
}

type eventResponse struct {
	ID         string        `json:"id"`
	ShipmentID string        `json:"shipmentId"`
	Status     domain.Status `json:"status"`
	Location   string        `json:"location"`
	Note       *string       `json:"note"`
	Timestamp  time.Time     `json:"timestamp"`
}

func toEventResponse(e *domain.ShipmentEvent) eventResponse {
	return eventResponse{
		ID:         e.ID,
		ShipmentID: e.ShipmentID,
		Status:     e.Status,
		Location:   e.Location,
		Note:       e.Note,
		Timestamp:  e.Timestamp,
	}
}

type serviceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Description *string `json:"description"`
}

type subscriptionResponse struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"trackingNumber"`
	PhoneNumber    string    `json:"phoneNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// mapAll converts a slice and never returns nil, so empty lists encode as [].
func mapAll[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
