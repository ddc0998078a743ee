package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
)

type codesRepo struct {
	db *sql.DB
}

func (r *codesRepo) CreateCode(ctx context.Context, code domain.OneTimeCode) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_codes (code_hash, user_id, email, role, issued_at, expires_at, consumed, consumed_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, NULL)
		 ON CONFLICT (code_hash) DO NOTHING`,
		code.CodeHash, code.UserID, code.Email, code.Role,
		toMillis(code.IssuedAt), toMillis(code.ExpiresAt),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

// ConsumeCode is the crux of exactly-once redemption: the consumed check and
// the flip happen in one conditional UPDATE, so under concurrent redemption
// attempts exactly one caller observes an affected row.
func (r *codesRepo) ConsumeCode(ctx context.Context, codeHash string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_codes
		 SET consumed = 1, consumed_at = ?
		 WHERE code_hash = ? AND consumed = 0 AND expires_at > ?`,
		toMillis(now), codeHash, toMillis(now),
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *codesRepo) GetCodeByHash(ctx context.Context, codeHash string) (domain.OneTimeCode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT code_hash, user_id, email, role, issued_at, expires_at, consumed, consumed_at
		 FROM auth_codes WHERE code_hash = ?`, codeHash)

	var c domain.OneTimeCode
	var issuedAt, expiresAt int64
	var consumedAt sql.NullInt64

	err := row.Scan(&c.CodeHash, &c.UserID, &c.Email, &c.Role, &issuedAt, &expiresAt, &c.Consumed, &consumedAt)
	if err != nil {
		return domain.OneTimeCode{}, mapNotFound(err)
	}

	c.IssuedAt = fromMillis(issuedAt)
	c.ExpiresAt = fromMillis(expiresAt)
	c.ConsumedAt = mapNullMillisPtr(consumedAt)
	return c, nil
}

func (r *codesRepo) DeleteCode(ctx context.Context, codeHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_codes WHERE code_hash = ?`, codeHash)
	return err
}

func (r *codesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_codes WHERE expires_at <= ?`, toMillis(now))
	return err
}

func (r *codesRepo) DeleteConsumedCodesBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_codes WHERE consumed = 1 AND consumed_at <= ?`, toMillis(cutoff))
	return err
}
