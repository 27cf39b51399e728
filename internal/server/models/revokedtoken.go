package models

import "time"

// RevokedToken is an entry of the revocation list. ExpiresAt is when the
// token would have stopped working anyway; zero if unknown.
type RevokedToken struct {
	ID        string
	Token     string
	RevokedAt time.Time
	ExpiresAt time.Time
}
