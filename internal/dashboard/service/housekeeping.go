package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/store"
)

// Housekeeping retention defaults. Expired codes go immediately; consumed
// codes wait out the replay grace; windows and sessions linger so operators
// can still inspect recent activity.
const (
	DefaultSweepInterval    = 1 * time.Minute
	DefaultWindowRetention  = 24 * time.Hour
	DefaultSessionRetention = 24 * time.Hour
)

// Housekeeping periodically sweeps rows the hot path no longer needs. Every
// sweep is safe to run on multiple instances at once; deletes are idempotent
// and never touch rows a live request could still claim.
type Housekeeping struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// CodeGrace mirrors the vault's purge delay so a crashed purge goroutine
	// cannot strand a consumed code forever.
	CodeGrace        time.Duration
	WindowRetention  time.Duration
	SessionRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (h *Housekeeping) Start() {
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	interval := h.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	go h.run(interval)
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (h *Housekeeping) Stop() {
	if h.stopCh == nil {
		return
	}
	close(h.stopCh)
	<-h.doneCh
}

func (h *Housekeeping) run(interval time.Duration) {
	defer close(h.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.Sweep(context.Background())
		}
	}
}

// Sweep runs one pass over all four tables. Failures are logged and skipped;
// the next tick retries.
func (h *Housekeeping) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if err := h.Store.Codes().DeleteExpiredCodes(sctx, now); err != nil {
		h.logger().Warn("sweep: expired codes", "err", err)
	}

	grace := h.CodeGrace
	if grace <= 0 {
		grace = DefaultPurgeDelay
	}
	if err := h.Store.Codes().DeleteConsumedCodesBefore(sctx, now.Add(-grace)); err != nil {
		h.logger().Warn("sweep: consumed codes", "err", err)
	}

	windowRetention := h.WindowRetention
	if windowRetention <= 0 {
		windowRetention = DefaultWindowRetention
	}
	if err := h.Store.RateLimits().DeleteStaleWindows(sctx, now.Add(-windowRetention)); err != nil {
		h.logger().Warn("sweep: stale rate limit windows", "err", err)
	}

	sessionRetention := h.SessionRetention
	if sessionRetention <= 0 {
		sessionRetention = DefaultSessionRetention
	}
	if err := h.Store.Sessions().DeleteStaleSessions(sctx, now.Add(-sessionRetention)); err != nil {
		h.logger().Warn("sweep: stale sessions", "err", err)
	}
}

func (h *Housekeeping) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
