package service

import (
	"context"
	"errors"
	"time"
)

// Business outcomes are typed sentinels so handlers can dispatch with
// errors.Is. Only infrastructure failures (storage unreachable, signing key
// absent) propagate as plain faults.
var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrCodeNotFound         = errors.New("code_not_found")
	ErrCodeExpired          = errors.New("code_expired")
	ErrCodeConsumed         = errors.New("code_consumed")
	ErrIdentityNotFound     = errors.New("identity_not_found")
	ErrSessionNotFound      = errors.New("session_not_found")
	ErrMissingDevice        = errors.New("missing_device_info")
	ErrStorageUnavailable   = errors.New("storage_unavailable")
	ErrSigningMisconfigured = errors.New("signing_misconfigured")
)

// storeTimeout bounds every round trip to the shared store so a slow storage
// layer cannot wedge request handling.
const storeTimeout = 3 * time.Second

func withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// mapStoreErr converts timeout-shaped infrastructure failures into the
// transient ErrStorageUnavailable so callers know a retry with backoff is
// safe. Everything else passes through untouched.
func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStorageUnavailable
	}
	return err
}
