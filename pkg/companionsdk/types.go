package companionsdk

// Request and response types shared by the dashboard backend and the desktop
// companion client. The wire format uses camelCase field names to match the
// dashboard frontend.

// TokenRequest is the body for POST /v1/auth/token. When Code is set the
// one-time companion code is redeemed; otherwise the bearer refresh token on
// the request resolves the identity.
type TokenRequest struct {
	Code string `json:"code,omitempty"`
}

// LoginRequest is the body for POST /v1/auth/login (browser session bridge).
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo describes the identity a token pair is bound to.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenResponse is returned by the login and token endpoints.
type TokenResponse struct {
	AccessToken      string   `json:"accessToken"`
	RefreshToken     string   `json:"refreshToken"`
	TokenType        string   `json:"tokenType"` // always "Bearer"
	ExpiresIn        int      `json:"expiresIn"`
	RefreshExpiresIn int      `json:"refreshExpiresIn"`
	User             UserInfo `json:"user"`
}

// CodeResponse is returned by POST /v1/auth/code. The code travels to the
// desktop client through the phishguard:// URI scheme and is good for one
// redemption within ExpiresAt.
type CodeResponse struct {
	Code      string `json:"code"`
	ExpiresAt string `json:"expiresAt"` // RFC 3339
}

// HeartbeatRequest carries desktop client device metadata.
type HeartbeatRequest struct {
	Platform   string `json:"platform"`
	AppVersion string `json:"appVersion"`
	OSVersion  string `json:"osVersion"`
	Hostname   string `json:"hostname"`
}

// HeartbeatResponse identifies the session record the heartbeat touched.
type HeartbeatResponse struct {
	SessionID string `json:"sessionId"`
}

// SessionInfo is one desktop session row in the operator view.
type SessionInfo struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Platform   string `json:"platform"`
	AppVersion string `json:"appVersion"`
	OSVersion  string `json:"osVersion"`
	Hostname   string `json:"hostname"`
	IPAddress  string `json:"ipAddress"`
	LastSeen   string `json:"lastSeen"` // RFC 3339
	IsActive   bool   `json:"isActive"`
}

// SessionListResponse is returned by GET /v1/sessions.
type SessionListResponse struct {
	Sessions       []SessionInfo `json:"sessions"`
	Total          int           `json:"total"`
	ActiveSessions int           `json:"activeSessions"`
	TotalUsers     int           `json:"totalUsers"`
}

// HealthChecks reports per-dependency status in readiness probes.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
