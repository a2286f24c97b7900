package db

import "time"

// Session represents an authenticated web session row. Profile holds the
// user's upstream profile document as returned by the platform.
type Session struct {
	ID           string
	UserID       string
	DisplayName  string
	Profile      []byte
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
