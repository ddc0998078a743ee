package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestCodeVaultIssueAndRedeem(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	vault := &CodeVault{Store: st, CodeTTL: time.Minute, PurgeDelay: time.Minute}

	identity := domain.Identity{UserID: "user-1", Email: "alice@example.com", Role: domain.RoleAdmin}
	code, expiresAt, err := vault.Issue(ctx, identity)
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.True(t, expiresAt.After(time.Now()))

	got, err := vault.Redeem(ctx, code)
	require.NoError(t, err)
	require.Equal(t, identity, got)
}

func TestCodeVaultRedeemIsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	vault := &CodeVault{Store: st, CodeTTL: time.Minute, PurgeDelay: time.Minute}

	code, _, err := vault.Issue(ctx, domain.Identity{UserID: "user-1", Email: "a@example.com", Role: domain.RoleViewer})
	require.NoError(t, err)

	const attempts = 100

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := vault.Redeem(ctx, code)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, consumed := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrCodeConsumed):
			consumed++
		default:
			t.Fatalf("unexpected redeem error: %v", err)
		}
	}

	require.Equal(t, 1, wins, "exactly one redeemer must win")
	require.Equal(t, attempts-1, consumed)
}

func TestCodeVaultRejectsUnknownCode(t *testing.T) {
	st := newTestStore(t)
	vault := &CodeVault{Store: st}

	_, err := vault.Redeem(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestCodeVaultRejectsExpiredCodeAndScavenges(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	// Insert a code that expired a minute ago.
	code := "expired-code"
	hash := cryptox.FingerprintToken(code)
	now := time.Now().UTC()
	require.NoError(t, st.Codes().CreateCode(ctx, domain.OneTimeCode{
		CodeHash:  hash,
		UserID:    "user-1",
		Email:     "a@example.com",
		Role:      domain.RoleViewer,
		IssuedAt:  now.Add(-2 * time.Minute),
		ExpiresAt: now.Add(-time.Minute),
	}))

	vault := &CodeVault{Store: st}
	_, err := vault.Redeem(ctx, code)
	require.ErrorIs(t, err, ErrCodeExpired)

	// Scavenged eagerly; a replay now reports not-found, not expired.
	_, err = st.Codes().GetCodeByHash(ctx, hash)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCodeVaultReplayWithinGraceReportsConsumed(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	vault := &CodeVault{Store: st, CodeTTL: time.Minute, PurgeDelay: time.Minute}

	code, _, err := vault.Issue(ctx, domain.Identity{UserID: "user-1", Email: "a@example.com", Role: domain.RoleViewer})
	require.NoError(t, err)

	_, err = vault.Redeem(ctx, code)
	require.NoError(t, err)

	_, err = vault.Redeem(ctx, code)
	require.ErrorIs(t, err, ErrCodeConsumed)
}

func TestCodeVaultPurgesConsumedCodeAfterGrace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	vault := &CodeVault{Store: st, CodeTTL: time.Minute, PurgeDelay: 50 * time.Millisecond}

	code, _, err := vault.Issue(ctx, domain.Identity{UserID: "user-1", Email: "a@example.com", Role: domain.RoleViewer})
	require.NoError(t, err)

	_, err = vault.Redeem(ctx, code)
	require.NoError(t, err)

	hash := cryptox.FingerprintToken(code)
	require.Eventually(t, func() bool {
		_, err := st.Codes().GetCodeByHash(ctx, hash)
		return errors.Is(err, store.ErrNotFound)
	}, 2*time.Second, 20*time.Millisecond)
}
