package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionDuration is the lifetime of a login session.
const SessionDuration = 24 * time.Hour

// SessionRecord names the currently active user. At most one session
// exists per deployment slot; expiry is checked lazily on read.
type SessionRecord struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Expiry time.Time `json:"expiry"`
}

// TokenManager generates and validates session tokens.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID, expiry time.Time) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}
