package domain

import "time"

type ShippingService struct {
	ID          string
	Name        string
	Price       string // NUMERIC rendered as text, e.g. "24.99"
	Description *string
}

// Subscription records an SMS opt-in for a tracking number. Delivery of
// the notifications happens elsewhere.
type Subscription struct {
	ID             string
	TrackingNumber string
	PhoneNumber    string
	CreatedAt      time.Time
}
