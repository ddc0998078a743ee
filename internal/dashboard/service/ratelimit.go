package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// admitAttempts bounds the optimistic retry loop. Each pass can only lose to
// a concurrent caller making progress on the same key, so a handful of
// retries is plenty.
const admitAttempts = 3

// RateLimitPolicy is a fixed-window quota for one logical endpoint.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

// RateLimiter enforces per-(user, endpoint) fixed-window quotas backed by the
// shared store, so the quota holds across every service instance. Admission
// is built from single conditional statements; this loop never reads a
// counter and writes it back.
type RateLimiter struct {
	Store store.Store
}

// Admit decides whether one request for (userID, endpoint) fits the policy.
// A denial is a normal decision, not an error; errors mean the limiter could
// not reach a verdict and the caller must fail closed.
func (l *RateLimiter) Admit(ctx context.Context, userID, endpoint string, policy RateLimitPolicy) (domain.RateLimitDecision, error) {
	repo := l.Store.RateLimits()

	for attempt := 0; attempt < admitAttempts; attempt++ {
		now := time.Now().UTC()

		sctx, cancel := withStoreTimeout(ctx)
		decision, retry, err := l.tryAdmit(sctx, repo, userID, endpoint, policy, now)
		cancel()

		if err != nil {
			return domain.RateLimitDecision{}, mapStoreErr(err)
		}
		if !retry {
			return decision, nil
		}
		// Lost every race this pass (e.g. the window was reset between our
		// statements). Go around with a fresh now.
	}

	return domain.RateLimitDecision{}, fmt.Errorf("rate limiter: no verdict for %s %s after %d attempts", userID, endpoint, admitAttempts)
}

// tryAdmit walks the conditional primitives in order. Exactly one succeeds
// for a caller that isn't racing; under contention the loser of each step
// falls through to the next, and retry=true means the key's state moved
// underneath us entirely.
func (l *RateLimiter) tryAdmit(ctx context.Context, repo store.RateLimits, userID, endpoint string, policy RateLimitPolicy, now time.Time) (domain.RateLimitDecision, bool, error) {
	ok, err := repo.IncrementIfWithin(ctx, userID, endpoint, policy.Limit, policy.Window, now)
	if err != nil {
		return domain.RateLimitDecision{}, false, err
	}
	if ok {
		return l.admittedDecision(ctx, repo, userID, endpoint, policy, now), false, nil
	}

	ok, err = repo.ResetIfElapsed(ctx, userID, endpoint, policy.Window, now)
	if err != nil {
		return domain.RateLimitDecision{}, false, err
	}
	if ok {
		return freshDecision(policy, now), false, nil
	}

	ok, err = repo.CreateWindow(ctx, userID, endpoint, now)
	if err != nil {
		return domain.RateLimitDecision{}, false, err
	}
	if ok {
		return freshDecision(policy, now), false, nil
	}

	// Nothing matched: the window exists, is current, and is full, unless we
	// lost a race. Read to distinguish the two.
	w, err := repo.GetWindow(ctx, userID, endpoint)
	if errors.Is(err, store.ErrNotFound) {
		return domain.RateLimitDecision{}, true, nil
	}
	if err != nil {
		return domain.RateLimitDecision{}, false, err
	}

	if now.Sub(w.WindowStart) < policy.Window && w.RequestCount >= policy.Limit {
		if verr := repo.RecordViolation(ctx, userID, endpoint); verr != nil {
			slogx.FromContext(ctx).Warn("failed to record rate limit violation", "err", verr)
		}
		return domain.RateLimitDecision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   w.WindowStart.Add(policy.Window),
		}, false, nil
	}

	return domain.RateLimitDecision{}, true, nil
}

// admittedDecision fills in Remaining/ResetAt for a request that already won
// its increment. The follow-up read is reporting only; a failure here never
// revokes the admission.
func (l *RateLimiter) admittedDecision(ctx context.Context, repo store.RateLimits, userID, endpoint string, policy RateLimitPolicy, now time.Time) domain.RateLimitDecision {
	w, err := repo.GetWindow(ctx, userID, endpoint)
	if err != nil {
		return domain.RateLimitDecision{
			Allowed:   true,
			Remaining: 0,
			ResetAt:   now.Add(policy.Window),
		}
	}

	remaining := policy.Limit - w.RequestCount
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   true,
		Remaining: remaining,
		ResetAt:   w.WindowStart.Add(policy.Window),
	}
}

func freshDecision(policy RateLimitPolicy, now time.Time) domain.RateLimitDecision {
	return domain.RateLimitDecision{
		Allowed:   true,
		Remaining: policy.Limit - 1,
		ResetAt:   now.Add(policy.Window),
	}
}
