package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
)

type rateLimitsRepo struct {
	db *sql.DB
}

// Each method below is a single conditional statement. Two concurrent callers
// racing on the same key never both satisfy the same predicate; the loser
// falls through to the next step in the service's admission loop.

func (r *rateLimitsRepo) CreateWindow(ctx context.Context, userID, endpoint string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rate_limit_windows (user_id, endpoint, window_start, request_count, violation_count)
		 VALUES (?, ?, ?, 1, 0)
		 ON CONFLICT (user_id, endpoint) DO NOTHING`,
		userID, endpoint, toMillis(now),
	)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (r *rateLimitsRepo) IncrementIfWithin(ctx context.Context, userID, endpoint string, limit int, window time.Duration, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rate_limit_windows
		 SET request_count = request_count + 1
		 WHERE user_id = ? AND endpoint = ?
		   AND ? - window_start < ?
		   AND request_count < ?`,
		userID, endpoint, toMillis(now), window.Milliseconds(), limit,
	)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (r *rateLimitsRepo) ResetIfElapsed(ctx context.Context, userID, endpoint string, window time.Duration, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rate_limit_windows
		 SET request_count = 1, window_start = ?
		 WHERE user_id = ? AND endpoint = ?
		   AND ? - window_start >= ?`,
		toMillis(now), userID, endpoint, toMillis(now), window.Milliseconds(),
	)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (r *rateLimitsRepo) RecordViolation(ctx context.Context, userID, endpoint string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rate_limit_windows
		 SET violation_count = violation_count + 1
		 WHERE user_id = ? AND endpoint = ?`,
		userID, endpoint,
	)
	return err
}

func (r *rateLimitsRepo) GetWindow(ctx context.Context, userID, endpoint string) (domain.RateLimitWindow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, endpoint, window_start, request_count, violation_count
		 FROM rate_limit_windows WHERE user_id = ? AND endpoint = ?`,
		userID, endpoint,
	)

	var w domain.RateLimitWindow
	var windowStart int64

	err := row.Scan(&w.UserID, &w.Endpoint, &windowStart, &w.RequestCount, &w.ViolationCount)
	if err != nil {
		return domain.RateLimitWindow{}, mapNotFound(err)
	}

	w.WindowStart = fromMillis(windowStart)
	return w, nil
}

func (r *rateLimitsRepo) DeleteStaleWindows(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_limit_windows WHERE window_start <= ?`, toMillis(cutoff))
	return err
}

func rowsAffected(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
