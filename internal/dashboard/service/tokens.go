package service

import (
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/pkg/jwtx"
)

// TokenService mints signed access/refresh pairs. It is a pure function of
// (identity, now, key material): no store access, no side effects, so it can
// only fail when the signing key is absent or unusable.
type TokenService struct {
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair signs a fresh access/refresh pair for user. Both tokens carry the
// full identity claims; they differ only in TTL and the token_use claim.
func (s *TokenService) IssuePair(user domain.User) (domain.TokenPair, error) {
	if s.Signer == nil {
		return domain.TokenPair{}, ErrSigningMisconfigured
	}
	if err := s.Signer.Validate(); err != nil {
		return domain.TokenPair{}, ErrSigningMisconfigured
	}

	now := time.Now().UTC()
	accessTTL := s.accessTTL()
	refreshTTL := s.refreshTTL()

	access, err := s.Signer.Sign(jwtx.NewClaims(
		user.ID, user.Email, user.Name, user.Role,
		jwtx.TokenUseAccess, accessTTL, s.Issuer, now,
	))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Signer.Sign(jwtx.NewClaims(
		user.ID, user.Email, user.Name, user.Role,
		jwtx.TokenUseRefresh, refreshTTL, s.Issuer, now,
	))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        accessTTL,
		RefreshExpiresIn: refreshTTL,
	}, nil
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}
