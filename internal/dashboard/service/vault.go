package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/slogx"
)

const (
	// DefaultCodeTTL is how long a minted code stays redeemable. The product
	// historically shipped both 5m and 15m; 15m is the documented value now.
	DefaultCodeTTL = 15 * time.Minute

	// DefaultPurgeDelay keeps a consumed code around briefly so a rapid
	// replay surfaces code_consumed instead of an anonymous not-found.
	DefaultPurgeDelay = 1 * time.Second

	// issueRetries bounds fingerprint-collision retries. With 256 bits of
	// entropy a collision means a broken RNG, not bad luck.
	issueRetries = 3
)

// CodeVault issues, stores, and redeems the one-time codes that bridge a
// browser login to the desktop companion. All state lives in the shared
// store; the vault itself holds nothing between calls, so any service
// instance can redeem a code minted by any other.
type CodeVault struct {
	Store      store.Store
	CodeTTL    time.Duration
	PurgeDelay time.Duration
}

// Issue generates a cryptographically random code bound to identity and
// persists its fingerprint. The opaque code is returned exactly once; it is
// never stored or logged.
func (v *CodeVault) Issue(ctx context.Context, identity domain.Identity) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(v.codeTTL())

	for attempt := 0; attempt < issueRetries; attempt++ {
		code, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return "", time.Time{}, err
		}

		record := domain.OneTimeCode{
			CodeHash:  cryptox.FingerprintToken(code),
			UserID:    identity.UserID,
			Email:     identity.Email,
			Role:      identity.Role,
			IssuedAt:  now,
			ExpiresAt: expiresAt,
		}

		sctx, cancel := withStoreTimeout(ctx)
		err = v.Store.Codes().CreateCode(sctx, record)
		cancel()

		if errors.Is(err, store.ErrAlreadyExists) {
			continue // regenerate with fresh entropy
		}
		if err != nil {
			return "", time.Time{}, mapStoreErr(err)
		}

		return code, expiresAt, nil
	}

	return "", time.Time{}, fmt.Errorf("code vault: fingerprint collision persisted across %d attempts", issueRetries)
}

// Redeem performs the atomic check-and-set at the heart of the handshake:
// under concurrent redemption attempts with the same code, exactly one
// succeeds and the rest observe ErrCodeConsumed. Expiry is enforced here by
// comparison, never by waiting for the sweep.
func (v *CodeVault) Redeem(ctx context.Context, code string) (domain.Identity, error) {
	now := time.Now().UTC()
	hash := cryptox.FingerprintToken(code)

	sctx, cancel := withStoreTimeout(ctx)
	won, err := v.Store.Codes().ConsumeCode(sctx, hash, now)
	cancel()
	if err != nil {
		return domain.Identity{}, mapStoreErr(err)
	}

	if !won {
		return domain.Identity{}, v.classifyRedeemFailure(ctx, hash, now)
	}

	sctx, cancel = withStoreTimeout(ctx)
	record, err := v.Store.Codes().GetCodeByHash(sctx, hash)
	cancel()
	if err != nil {
		return domain.Identity{}, mapStoreErr(err)
	}

	v.schedulePurge(slogx.FromContext(ctx), hash)

	return record.Identity(), nil
}

// classifyRedeemFailure turns a lost consume into the precise business
// outcome. This read happens after the atomic attempt and only informs the
// error message; it never decides a redemption.
func (v *CodeVault) classifyRedeemFailure(ctx context.Context, hash string, now time.Time) error {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	record, err := v.Store.Codes().GetCodeByHash(sctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCodeNotFound
	}
	if err != nil {
		return mapStoreErr(err)
	}

	if now.After(record.ExpiresAt) {
		// Scavenge eagerly rather than waiting for housekeeping.
		if err := v.Store.Codes().DeleteCode(sctx, hash); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete expired code", "err", err)
		}
		return ErrCodeExpired
	}
	if record.Consumed {
		return ErrCodeConsumed
	}

	// The consume lost but the record looks redeemable: a concurrent purge
	// or sweep got between the two statements. Treat as gone.
	return ErrCodeNotFound
}

// schedulePurge deletes the consumed record after the grace delay, closing
// the retry window without racing the redeemer's own response.
func (v *CodeVault) schedulePurge(log *slog.Logger, hash string) {
	time.AfterFunc(v.purgeDelay(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := v.Store.Codes().DeleteCode(ctx, hash); err != nil {
			log.Warn("failed to purge consumed code", "err", err)
		}
	})
}

func (v *CodeVault) codeTTL() time.Duration {
	if v.CodeTTL <= 0 {
		return DefaultCodeTTL
	}
	return v.CodeTTL
}

func (v *CodeVault) purgeDelay() time.Duration {
	if v.PurgeDelay <= 0 {
		return DefaultPurgeDelay
	}
	return v.PurgeDelay
}
