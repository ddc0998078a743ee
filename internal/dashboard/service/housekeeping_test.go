package service

import (
	"context"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Now().UTC()

	// Expired, consumed-past-grace, and live codes.
	expiredHash := cryptox.FingerprintToken("expired")
	require.NoError(t, st.Codes().CreateCode(ctx, domain.OneTimeCode{
		CodeHash: expiredHash, UserID: "u1", Email: "a@example.com", Role: domain.RoleViewer,
		IssuedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-30 * time.Minute),
	}))

	consumedHash := cryptox.FingerprintToken("consumed")
	require.NoError(t, st.Codes().CreateCode(ctx, domain.OneTimeCode{
		CodeHash: consumedHash, UserID: "u1", Email: "a@example.com", Role: domain.RoleViewer,
		IssuedAt: now.Add(-time.Minute), ExpiresAt: now.Add(10 * time.Minute),
	}))
	won, err := st.Codes().ConsumeCode(ctx, consumedHash, now.Add(-10*time.Second))
	require.NoError(t, err)
	require.True(t, won)

	liveHash := cryptox.FingerprintToken("live")
	require.NoError(t, st.Codes().CreateCode(ctx, domain.OneTimeCode{
		CodeHash: liveHash, UserID: "u1", Email: "a@example.com", Role: domain.RoleViewer,
		IssuedAt: now, ExpiresAt: now.Add(10 * time.Minute),
	}))

	// One stale and one fresh rate limit window.
	created, err := st.RateLimits().CreateWindow(ctx, "u1", "stale", now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.True(t, created)
	created, err = st.RateLimits().CreateWindow(ctx, "u1", "fresh", now)
	require.NoError(t, err)
	require.True(t, created)

	// One stale and one fresh desktop session.
	staleSession := domain.DesktopSession{
		ID: idx.New().String(), UserID: "u1",
		Device:    domain.DeviceInfo{Platform: "linux", Hostname: "old-box", AppVersion: "1.0", OSVersion: "6.1"},
		IPAddress: "203.0.113.1", LastSeen: now.Add(-48 * time.Hour), IsActive: true, CreatedAt: now.Add(-72 * time.Hour),
	}
	_, err = st.Sessions().UpsertHeartbeat(ctx, staleSession)
	require.NoError(t, err)

	freshSession := staleSession
	freshSession.ID = idx.New().String()
	freshSession.Device.Hostname = "new-box"
	freshSession.LastSeen = now
	freshID, err := st.Sessions().UpsertHeartbeat(ctx, freshSession)
	require.NoError(t, err)

	h := &Housekeeping{
		Store:            st,
		CodeGrace:        time.Second,
		WindowRetention:  24 * time.Hour,
		SessionRetention: 24 * time.Hour,
	}
	h.Sweep(ctx)

	_, err = st.Codes().GetCodeByHash(ctx, expiredHash)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Codes().GetCodeByHash(ctx, consumedHash)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Codes().GetCodeByHash(ctx, liveHash)
	require.NoError(t, err, "live codes survive the sweep")

	_, err = st.RateLimits().GetWindow(ctx, "u1", "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.RateLimits().GetWindow(ctx, "u1", "fresh")
	require.NoError(t, err)

	sessions, err := st.Sessions().ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, freshID, sessions[0].ID)
}

func TestHousekeepingStartStop(t *testing.T) {
	h := &Housekeeping{Store: newTestStore(t), Interval: 10 * time.Millisecond}

	h.Start()
	time.Sleep(30 * time.Millisecond)
	h.Stop()

	// Stop on a never-started instance is a no-op.
	(&Housekeeping{Store: newTestStore(t)}).Stop()
}
