package service

import (
	"strings"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *jwtx.EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	return signer
}

func TestTokenServiceIssuesVerifiablePair(t *testing.T) {
	signer := newTestSigner(t)
	svc := &TokenService{
		Signer:     signer,
		Issuer:     "phishguard-dashboard",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}

	user := domain.User{
		ID:    "user-1",
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  domain.RoleAnalyst,
	}

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, time.Minute, pair.ExpiresIn)
	require.Equal(t, time.Hour, pair.RefreshExpiresIn)

	verifier := jwtx.NewVerifierEdDSA("test-key", signer.Public(), "phishguard-dashboard")

	access, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, access.Subject)
	require.Equal(t, user.Email, access.Email)
	require.Equal(t, user.Name, access.Name)
	require.Equal(t, user.Role, access.Role)
	require.NoError(t, access.ValidateUse(jwtx.TokenUseAccess))

	refresh, err := verifier.Verify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, refresh.Subject)
	require.NoError(t, refresh.ValidateUse(jwtx.TokenUseRefresh))
	require.ErrorIs(t, refresh.ValidateUse(jwtx.TokenUseAccess), jwtx.ErrWrongUse)

	require.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestTokenServiceRejectsTamperedToken(t *testing.T) {
	signer := newTestSigner(t)
	svc := &TokenService{Signer: signer, Issuer: "phishguard-dashboard"}

	pair, err := svc.IssuePair(domain.User{ID: "user-1", Email: "a@example.com", Role: domain.RoleViewer})
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	verifier := jwtx.NewVerifierEdDSA("test-key", signer.Public(), "phishguard-dashboard")
	_, err = verifier.Verify(tampered)
	require.Error(t, err)
}

func TestTokenServiceRejectsForeignKey(t *testing.T) {
	signer := newTestSigner(t)
	svc := &TokenService{Signer: signer, Issuer: "phishguard-dashboard"}

	pair, err := svc.IssuePair(domain.User{ID: "user-1", Email: "a@example.com", Role: domain.RoleViewer})
	require.NoError(t, err)

	other := newTestSigner(t)
	verifier := jwtx.NewVerifierEdDSA("test-key", other.Public(), "phishguard-dashboard")
	_, err = verifier.Verify(pair.AccessToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestTokenServiceRequiresSigner(t *testing.T) {
	svc := &TokenService{Issuer: "phishguard-dashboard"}

	_, err := svc.IssuePair(domain.User{ID: "user-1"})
	require.ErrorIs(t, err, ErrSigningMisconfigured)
}
