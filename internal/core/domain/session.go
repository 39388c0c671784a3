package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque signed token to a username until ExpiresAt.
type Session struct {
	ID        string
	Token     string
	Username  string
	ExpiresAt time.Time
}
