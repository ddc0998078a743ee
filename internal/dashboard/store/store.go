package store

import (
	"context"
	"errors"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Correctness of the handshake subsystems is
// enforced entirely here: every invariant-enforcing mutation is a single
// atomic conditional operation, never a read followed by a separate write on
// the same key. Multiple service instances share one store, so no repo method
// may rely on process-local state.
type Store interface {
	Users() Users
	Codes() Codes
	RateLimits() RateLimits
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID resolves an identity during token issuance.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during dashboard login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// CountUsers backs the operator session summary and bootstrap check.
	CountUsers(ctx context.Context) (int, error)
}

type Codes interface {
	// CreateCode stores a freshly minted one-time code record (keyed by
	// fingerprint). Returns ErrAlreadyExists on a fingerprint collision so
	// the vault can retry with fresh entropy.
	CreateCode(ctx context.Context, code domain.OneTimeCode) error

	// ConsumeCode atomically flips consumed from false to true for an
	// unexpired code, in one conditional update. Returns true when this call
	// won the transition; false when the code is absent, expired, or already
	// consumed (the caller classifies via GetCodeByHash).
	ConsumeCode(ctx context.Context, codeHash string, now time.Time) (bool, error)

	// GetCodeByHash fetches a code record for failure classification only;
	// it must never be used to decide a consume.
	GetCodeByHash(ctx context.Context, codeHash string) (domain.OneTimeCode, error)

	// DeleteCode removes a single code record.
	DeleteCode(ctx context.Context, codeHash string) error

	// DeleteExpiredCodes removes codes past their expiry regardless of
	// consumption state.
	DeleteExpiredCodes(ctx context.Context, now time.Time) error

	// DeleteConsumedCodesBefore removes consumed codes whose grace delay has
	// passed.
	DeleteConsumedCodesBefore(ctx context.Context, cutoff time.Time) error
}

type RateLimits interface {
	// CreateWindow inserts a fresh window with requestCount=1 for a key that
	// has no record yet. Returns false when a concurrent caller created it
	// first.
	CreateWindow(ctx context.Context, userID, endpoint string, now time.Time) (bool, error)

	// IncrementIfWithin adds one admitted request iff the window is still
	// current and the count is below limit. The read, threshold check and
	// increment are one conditional update. Returns false when the predicate
	// did not hold.
	IncrementIfWithin(ctx context.Context, userID, endpoint string, limit int, window time.Duration, now time.Time) (bool, error)

	// ResetIfElapsed starts a new window (requestCount=1, windowStart=now)
	// iff the previous window has fully elapsed. Returns false when another
	// caller reset it first or it hasn't elapsed.
	ResetIfElapsed(ctx context.Context, userID, endpoint string, window time.Duration, now time.Time) (bool, error)

	// RecordViolation bumps the monitoring-only violation counter for a
	// denied request.
	RecordViolation(ctx context.Context, userID, endpoint string) error

	// GetWindow reads the current window state for reporting.
	GetWindow(ctx context.Context, userID, endpoint string) (domain.RateLimitWindow, error)

	// DeleteStaleWindows prunes windows untouched since cutoff.
	DeleteStaleWindows(ctx context.Context, cutoff time.Time) error
}

type Sessions interface {
	// UpsertHeartbeat creates or refreshes the session for the
	// (userID, platform, hostname) key in one atomic upsert, setting
	// lastSeen=now and isActive=true. Returns the session ID.
	UpsertHeartbeat(ctx context.Context, s domain.DesktopSession) (string, error)

	// GetSessionByID fetches a single session record.
	GetSessionByID(ctx context.Context, id string) (domain.DesktopSession, error)

	// ListSessions returns all sessions ordered by lastSeen descending.
	ListSessions(ctx context.Context) ([]domain.DesktopSession, error)

	// DeactivateSession sets isActive=false. Missing sessions return
	// ErrNotFound; already-inactive sessions are not an error.
	DeactivateSession(ctx context.Context, id string) error

	// DeleteStaleSessions removes sessions with no heartbeat since cutoff.
	DeleteStaleSessions(ctx context.Context, cutoff time.Time) error
}
