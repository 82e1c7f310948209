package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusCreated        Status = "Created"
	StatusInTransit      Status = "In Transit"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusException      Status = "Exception"
)

// Statuses lists the canonical labels in timeline order.
var Statuses = []Status{
	StatusCreated,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusException,
}

// ParseStatus matches s against the canonical labels ignoring case and
// surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// TrackingIDPrefix starts every generated tracking id.
const TrackingIDPrefix = "FDX"

// FirstEventNote is attached to the event written with a new shipment.
const FirstEventNote = "Shipment created"

type Shipment struct {
	ID            string
	TrackingID    string
	SenderName    string
	RecipientName string
	Origin        string
	Destination   string
	WeightKg      *float64
	Status        Status
	ServiceID     *string

	VerificationCode     *string // nil unless minted by an admin
	VerificationCodeUsed bool

	CreatedByID string
	CreatedAt   time.Time
}

// OwnedBy reports whether userID created the shipment.
func (s *Shipment) OwnedBy(userID string) bool {
	return s.CreatedByID == userID
}

type ShipmentEvent struct {
	ID         string
	ShipmentID string
	Status     Status
	Location   string
	Note       *string
	Timestamp  time.Time
}
