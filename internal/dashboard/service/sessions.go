package service

import (
	"context"
	"errors"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/idx"
)

// DefaultLivenessWindow is how long a session stays "active" after its last
// heartbeat. Companions heartbeat roughly once a minute, so five minutes
// tolerates a few missed beats before the dashboard reports a disconnect.
const DefaultLivenessWindow = 5 * time.Minute

// SessionRegistry tracks desktop companion connections. Presence is derived
// from heartbeats at read time; no background job flips sessions inactive.
type SessionRegistry struct {
	Store          store.Store
	LivenessWindow time.Duration
}

// SessionSummary is the operator view of current connections.
type SessionSummary struct {
	Sessions       []domain.DesktopSession
	Total          int
	ActiveSessions int
	TotalUsers     int
}

// Heartbeat registers or refreshes the session for (userID, device) in one
// atomic upsert. Two companions on the same host and platform share a
// session row; distinct hostnames get distinct rows.
func (r *SessionRegistry) Heartbeat(ctx context.Context, userID string, device domain.DeviceInfo, ipAddress string) (string, error) {
	if device.Platform == "" || device.Hostname == "" {
		return "", ErrMissingDevice
	}

	now := time.Now().UTC()
	session := domain.DesktopSession{
		ID:        idx.New().String(),
		UserID:    userID,
		Device:    device,
		IPAddress: ipAddress,
		LastSeen:  now,
		IsActive:  true,
		CreatedAt: now,
	}

	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	id, err := r.Store.Sessions().UpsertHeartbeat(sctx, session)
	if err != nil {
		return "", mapStoreErr(err)
	}
	return id, nil
}

// List returns sessions with liveness computed against the current clock.
// ActiveSessions and TotalUsers always describe the whole registry, even when
// activeOnly narrows the returned slice.
func (r *SessionRegistry) List(ctx context.Context, activeOnly bool) (SessionSummary, error) {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	all, err := r.Store.Sessions().ListSessions(sctx)
	if err != nil {
		return SessionSummary{}, mapStoreErr(err)
	}

	now := time.Now().UTC()
	window := r.livenessWindow()

	users := make(map[string]struct{}, len(all))
	active := 0
	for _, s := range all {
		users[s.UserID] = struct{}{}
		if s.ActiveWithin(window, now) {
			active++
		}
	}

	sessions := all
	if activeOnly {
		sessions = make([]domain.DesktopSession, 0, active)
		for _, s := range all {
			if s.ActiveWithin(window, now) {
				sessions = append(sessions, s)
			}
		}
	}

	return SessionSummary{
		Sessions:       sessions,
		Total:          len(sessions),
		ActiveSessions: active,
		TotalUsers:     len(users),
	}, nil
}

// Get fetches one session with liveness already applied to IsActive.
func (r *SessionRegistry) Get(ctx context.Context, id string) (domain.DesktopSession, error) {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	s, err := r.Store.Sessions().GetSessionByID(sctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DesktopSession{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.DesktopSession{}, mapStoreErr(err)
	}

	s.IsActive = s.ActiveWithin(r.livenessWindow(), time.Now().UTC())
	return s, nil
}

// Deactivate marks a session disconnected. Deactivating an already-inactive
// session succeeds; only a missing session is an error.
func (r *SessionRegistry) Deactivate(ctx context.Context, id string) error {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	err := r.Store.Sessions().DeactivateSession(sctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	return mapStoreErr(err)
}

func (r *SessionRegistry) livenessWindow() time.Duration {
	if r.LivenessWindow <= 0 {
		return DefaultLivenessWindow
	}
	return r.LivenessWindow
}
