package domain

import "time"

// TokenPair is a signed access/refresh token pair bound to one identity.
// Both tokens are self-contained JWTs; nothing is persisted on issuance.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
}
