package domain

import "time"

// RateLimitWindow is a fixed-window counter keyed (UserID, Endpoint), shared
// across all service instances. Mutations happen only through atomic
// conditional updates in the store.
type RateLimitWindow struct {
	UserID         string
	Endpoint       string
	WindowStart    time.Time
	RequestCount   int
	ViolationCount int
}

// RateLimitDecision is the outcome of an admission check.
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}
