package domain

import "time"

// OneTimeCode bridges a browser login to the desktop companion. The opaque
// code itself never touches storage; records are keyed by SHA-256
// fingerprint. A code transitions unconsumed -> consumed at most once.
type OneTimeCode struct {
	CodeHash   string
	UserID     string
	Email      string
	Role       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Consumed   bool
	ConsumedAt *time.Time
}

// Identity returns the principal this code vouches for.
func (c OneTimeCode) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
