package domain

import "time"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelEmail, ChannelPhone:
		return Channel(s), nil
	}
	return "", ErrInvalidChannel
}

type VerificationCode struct {
	ID        string
	UserID    string
	Code      string
	Type      Channel
	IsUsed    bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the code can still be consumed at now.
func (v *VerificationCode) Valid(now time.Time) bool {
	return !v.IsUsed && now.Before(v.ExpiresAt)
}
