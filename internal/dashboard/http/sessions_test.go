package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func heartbeatBody() companionsdk.HeartbeatRequest {
	return companionsdk.HeartbeatRequest{
		Platform:   "windows",
		AppVersion: "2.4.1",
		OSVersion:  "10.0.22631",
		Hostname:   "DESKTOP-ALICE",
	}
}

func TestHeartbeatAndSessionList(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "pw", domain.RoleAdmin)
	viewer := env.seedUser(t, "viewer@example.com", "pw", domain.RoleViewer)

	adminLogin := env.login(t, "admin@example.com", "pw")
	viewerLogin := env.login(t, "viewer@example.com", "pw")

	// Desktop client heartbeats.
	rec := env.doJSON(t, http.MethodPost, "/v1/sessions/heartbeat", heartbeatBody(), viewerLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var hb companionsdk.HeartbeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hb))
	require.NotEmpty(t, hb.SessionID)

	// A repeat heartbeat touches the same session.
	rec = env.doJSON(t, http.MethodPost, "/v1/sessions/heartbeat", heartbeatBody(), viewerLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var hb2 companionsdk.HeartbeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hb2))
	require.Equal(t, hb.SessionID, hb2.SessionID)

	// Operator sees it.
	rec = env.doJSON(t, http.MethodGet, "/v1/sessions", nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list companionsdk.SessionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.Equal(t, 1, list.ActiveSessions)
	require.Equal(t, 1, list.TotalUsers)
	require.Len(t, list.Sessions, 1)
	require.Equal(t, viewer.ID, list.Sessions[0].UserID)
	require.True(t, list.Sessions[0].IsActive)
	require.Equal(t, "DESKTOP-ALICE", list.Sessions[0].Hostname)

	// Non-admins don't get the operator view.
	rec = env.doJSON(t, http.MethodGet, "/v1/sessions", nil, viewerLogin.AccessToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessionListActiveOnlyHidesStaleSessions(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "pw", domain.RoleAdmin)
	adminLogin := env.login(t, "admin@example.com", "pw")

	// Insert a session whose heartbeat is well outside the liveness window.
	stale := domain.DesktopSession{
		ID:     idx.New().String(),
		UserID: "user-gone",
		Device: domain.DeviceInfo{
			Platform: "linux", AppVersion: "1.0", OSVersion: "6.1", Hostname: "old-box",
		},
		IPAddress: "203.0.113.1",
		LastSeen:  time.Now().UTC().Add(-time.Hour),
		IsActive:  true,
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	_, err := env.store.Sessions().UpsertHeartbeat(t.Context(), stale)
	require.NoError(t, err)

	rec := env.doJSON(t, http.MethodGet, "/v1/sessions?activeOnly=true", nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var list companionsdk.SessionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 0, list.Total)
	require.Empty(t, list.Sessions)
	require.Equal(t, 0, list.ActiveSessions)
	require.Equal(t, 1, list.TotalUsers, "stale sessions still count connected users")

	// The unfiltered view shows it, marked inactive.
	rec = env.doJSON(t, http.MethodGet, "/v1/sessions", nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.False(t, list.Sessions[0].IsActive)
}

func TestHeartbeatRejectsMissingDeviceInfo(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "viewer@example.com", "pw", domain.RoleViewer)
	login := env.login(t, "viewer@example.com", "pw")

	body := heartbeatBody()
	body.Hostname = ""
	rec := env.doJSON(t, http.MethodPost, "/v1/sessions/heartbeat", body, login.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionDeactivation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "pw", domain.RoleAdmin)
	env.seedUser(t, "viewer@example.com", "pw", domain.RoleViewer)

	adminLogin := env.login(t, "admin@example.com", "pw")
	viewerLogin := env.login(t, "viewer@example.com", "pw")

	rec := env.doJSON(t, http.MethodPost, "/v1/sessions/heartbeat", heartbeatBody(), viewerLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var hb companionsdk.HeartbeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hb))

	rec = env.doJSON(t, http.MethodDelete, "/v1/sessions/"+hb.SessionID, nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// Idempotent.
	rec = env.doJSON(t, http.MethodDelete, "/v1/sessions/"+hb.SessionID, nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown sessions are a 404.
	rec = env.doJSON(t, http.MethodDelete, "/v1/sessions/"+idx.New().String(), nil, adminLogin.AccessToken)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, companionsdk.ErrorCodeSessionNotFound, decodeAPIError(t, rec).Code)
}
