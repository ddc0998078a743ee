package domain

import "time"

// DeviceInfo identifies the desktop installation a session belongs to.
// (UserID, Platform, Hostname) is the upsert key for heartbeats.
type DeviceInfo struct {
	Platform   string
	AppVersion string
	OSVersion  string
	Hostname   string
}

// DesktopSession tracks one live desktop-client connection.
//
// IsActive alone is not trustworthy: a session is only considered active
// when IsActive is set AND the last heartbeat is within the liveness window.
// Explicit deactivation and passive staleness are separate mechanisms.
type DesktopSession struct {
	ID        string
	UserID    string
	Device    DeviceInfo
	IPAddress string
	LastSeen  time.Time
	IsActive  bool
	CreatedAt time.Time
}

// ActiveWithin reports whether the session counts as active given the
// liveness window.
func (s DesktopSession) ActiveWithin(window time.Duration, now time.Time) bool {
	return s.IsActive && now.Sub(s.LastSeen) < window
}
