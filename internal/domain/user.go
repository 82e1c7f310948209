package domain

import "time"

type User struct {
	ID            string
	Name          string
	Email         string
	Phone         *string
	PasswordHash  string
	EmailVerified bool
	PhoneVerified bool
	IsAdmin       bool
	CreatedAt     time.Time
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	ID      string
	Name    string
	Email   string
	IsAdmin bool
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}
