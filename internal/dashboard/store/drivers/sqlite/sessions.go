package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
)

type sessionsRepo struct {
	db *sql.DB
}

const sessionColumns = `id, user_id, platform, app_version, os_version, hostname, ip_address, last_seen, is_active, created_at`

// UpsertHeartbeat is one atomic statement: the existing row for the device
// key is refreshed, or a new one is created, and the affected row's id comes
// back via RETURNING.
func (r *sessionsRepo) UpsertHeartbeat(ctx context.Context, s domain.DesktopSession) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO desktop_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
		 ON CONFLICT (user_id, platform, hostname) DO UPDATE SET
		   last_seen = excluded.last_seen,
		   is_active = 1,
		   ip_address = excluded.ip_address,
		   app_version = excluded.app_version,
		   os_version = excluded.os_version
		 RETURNING id`,
		s.ID, s.UserID, s.Device.Platform, s.Device.AppVersion, s.Device.OSVersion,
		s.Device.Hostname, s.IPAddress, toMillis(s.LastSeen), toMillis(s.CreatedAt),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.DesktopSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM desktop_sessions WHERE id = ?`, id)

	s, err := scanSession(row.Scan)
	if err != nil {
		return domain.DesktopSession{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) ListSessions(ctx context.Context) ([]domain.DesktopSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM desktop_sessions ORDER BY last_seen DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []domain.DesktopSession
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionsRepo) DeactivateSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE desktop_sessions SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM desktop_sessions WHERE last_seen <= ?`, toMillis(cutoff))
	return err
}

func scanSession(scan func(dest ...any) error) (domain.DesktopSession, error) {
	var s domain.DesktopSession
	var lastSeen, createdAt int64
	var isActive sql.NullBool

	err := scan(&s.ID, &s.UserID, &s.Device.Platform, &s.Device.AppVersion,
		&s.Device.OSVersion, &s.Device.Hostname, &s.IPAddress,
		&lastSeen, &isActive, &createdAt)
	if err != nil {
		return domain.DesktopSession{}, err
	}

	s.LastSeen = fromMillis(lastSeen)
	s.CreatedAt = fromMillis(createdAt)
	s.IsActive = isActive.Valid && isActive.Bool
	return s, nil
}
