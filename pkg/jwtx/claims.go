package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived, refresh tokens carry the
// desktop companion between launches. Both can be overridden per-service.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token use values distinguishing the two halves of a pair. A refresh token
// presented where an access token is expected must be rejected.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims are the token claims shared by access and refresh tokens. Both are
// self-contained: validating a token never requires a server-side lookup.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// Name is the display name shown in the dashboard and companion app.
	Name string `json:"name,omitempty"`

	// Role gates operator endpoints ("admin", "analyst", "viewer").
	Role string `json:"role,omitempty"`

	// TokenUse is "access" or "refresh".
	TokenUse string `json:"token_use,omitempty"`
}

// NewClaims builds minimally-correct claims for the given token use.
func NewClaims(
	subject, email, name, role, tokenUse string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email:    email,
		Name:     name,
		Role:     role,
		TokenUse: tokenUse,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer matches the expected value. An empty
// expectation enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateUse ensures the token carries the expected token_use claim.
func (c *Claims) ValidateUse(expected string) error {
	if c.TokenUse != expected {
		return ErrWrongUse
	}
	return nil
}
