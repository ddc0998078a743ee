package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// SessionsHandler serves the desktop session registry endpoints.
type SessionsHandler struct {
	Registry *service.SessionRegistry
}

// HandleList godoc
//
//	@Summary		List Desktop Sessions
//	@Description	Operator view of desktop companion connections. Liveness is computed from the
//	@Description	last heartbeat at read time; pass activeOnly=true to hide stale sessions.
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			activeOnly	query		bool								false	"Only sessions with a recent heartbeat"
//	@Success		200			{object}	companionsdk.SessionListResponse	"sessions, total, activeSessions, totalUsers"
//	@Failure		401			{object}	companionsdk.APIError				"error, message"
//	@Failure		403			{object}	companionsdk.APIError				"error, message"
//	@Failure		503			{object}	companionsdk.APIError				"error, message"
//	@Router			/v1/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	summary, err := h.Registry.List(ctx, activeOnly)
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			companionsdk.ErrStorageUnavailable.WriteError(w)
			return
		}
		log.Error("session list failed", "err", err)
		companionsdk.ErrServerError.WriteError(w)
		return
	}

	response := companionsdk.SessionListResponse{
		Sessions:       make([]companionsdk.SessionInfo, 0, len(summary.Sessions)),
		Total:          summary.Total,
		ActiveSessions: summary.ActiveSessions,
		TotalUsers:     summary.TotalUsers,
	}

	now := time.Now().UTC()
	window := h.Registry.LivenessWindow
	if window <= 0 {
		window = service.DefaultLivenessWindow
	}
	for _, s := range summary.Sessions {
		response.Sessions = append(response.Sessions, sessionInfo(s, window, now))
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleDeactivate godoc
//
//	@Summary		Disconnect Desktop Session
//	@Description	Marks a desktop session inactive. Deactivating an already-inactive session
//	@Description	succeeds; only an unknown session ID is an error.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Session ID"
//	@Success		200	"session deactivated"
//	@Failure		401	{object}	companionsdk.APIError	"error, message"
//	@Failure		403	{object}	companionsdk.APIError	"error, message"
//	@Failure		404	{object}	companionsdk.APIError	"error, message"
//	@Failure		503	{object}	companionsdk.APIError	"error, message"
//	@Router			/v1/sessions/{id} [delete].
func (h *SessionsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")
	if id == "" {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Registry.Deactivate(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			companionsdk.ErrSessionNotFound.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			companionsdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("session deactivation failed", "session_id", id, "err", err)
			companionsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleHeartbeat godoc
//
//	@Summary		Desktop Session Heartbeat
//	@Description	Registers or refreshes the desktop session for the authenticated user's device.
//	@Description	(userId, platform, hostname) identifies the installation; repeated heartbeats
//	@Description	touch the same session.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	formData	companionsdk.HeartbeatRequest	true	"Device metadata"
//	@Success		200		{object}	companionsdk.HeartbeatResponse	"sessionId"
//	@Failure		400		{object}	companionsdk.APIError			"error, message"
//	@Failure		401		{object}	companionsdk.APIError			"error, message"
//	@Failure		429		{object}	companionsdk.APIError			"error, message, resetAt"
//	@Failure		503		{object}	companionsdk.APIError			"error, message"
//	@Router			/v1/sessions/heartbeat [post].
func (h *SessionsHandler) HandleHeartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req companionsdk.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	device := domain.DeviceInfo{
		Platform:   req.Platform,
		AppVersion: req.AppVersion,
		OSVersion:  req.OSVersion,
		Hostname:   req.Hostname,
	}

	sessionID, err := h.Registry.Heartbeat(ctx, httpx.UserIDFromCtx(ctx), device, httpx.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingDevice):
			companionsdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			companionsdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("heartbeat failed", "err", err)
			companionsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, companionsdk.HeartbeatResponse{SessionID: sessionID})
}

func sessionInfo(s domain.DesktopSession, window time.Duration, now time.Time) companionsdk.SessionInfo {
	return companionsdk.SessionInfo{
		ID:         s.ID,
		UserID:     s.UserID,
		Platform:   s.Device.Platform,
		AppVersion: s.Device.AppVersion,
		OSVersion:  s.Device.OSVersion,
		Hostname:   s.Device.Hostname,
		IPAddress:  s.IPAddress,
		LastSeen:   s.LastSeen.UTC().Format(time.RFC3339),
		IsActive:   s.ActiveWithin(window, now),
	}
}
