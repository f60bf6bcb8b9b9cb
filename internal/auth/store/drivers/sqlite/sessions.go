package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
)

type sessionsRepo struct {
	db DBTX
}

const sessionColumns = `s.id, s.user_id, s.username, s.created_at, s.last_activity,
	s.expires_at, s.refresh_hash, s.refresh_expires_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	if len(s.PreviousHashes) > 0 {
		return errors.New("sqlite: new session must not carry previous hashes")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, user_id, username, created_at, last_activity,
			expires_at, refresh_hash, refresh_expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Username,
		toUnix(s.CreatedAt), toUnix(s.LastActivity),
		toUnix(s.ExpiresAt), s.RefreshHash, toUnix(s.RefreshExpiresAt),
	)
	return mapUnique(err)
}

func (r *sessionsRepo) GetSessionByRefreshHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s WHERE s.refresh_hash = ?`, hash)
	return r.load(ctx, row)
}

func (r *sessionsRepo) GetSessionByPreviousHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s
		JOIN session_previous_hashes p ON p.session_id = s.id
		WHERE p.hash = ?`, hash)
	return r.load(ctx, row)
}

func (r *sessionsRepo) RotateSession(
	ctx context.Context,
	id, oldHash, newHash string,
	refreshExpiresAt, lastActivity time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET refresh_hash = ?, refresh_expires_at = ?, last_activity = ?
		WHERE id = ? AND refresh_hash = ?`,
		newHash, toUnix(refreshExpiresAt), toUnix(lastActivity), id, oldHash,
	)
	if err != nil {
		return mapUnique(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_previous_hashes (hash, session_id) VALUES (?, ?)`,
		oldHash, id,
	)
	return mapUnique(err)
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	// The cascade covers this when foreign keys are on; be explicit anyway.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_previous_hashes WHERE session_id = ?`, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	cutoff := toUnix(now)

	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM session_previous_hashes
		WHERE session_id IN (
			SELECT id FROM sessions WHERE expires_at < ? OR refresh_expires_at < ?
		)`, cutoff, cutoff); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ? OR refresh_expires_at < ?`, cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// load scans a session row and attaches its previous hashes in rotation
// order.
func (r *sessionsRepo) load(ctx context.Context, row interface{ Scan(...any) error }) (domain.Session, error) {
	var s domain.Session
	var created, lastActivity, expires, refreshExpires int64
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Username, &created, &lastActivity,
		&expires, &s.RefreshHash, &refreshExpires,
	); err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = fromUnix(created)
	s.LastActivity = fromUnix(lastActivity)
	s.ExpiresAt = fromUnix(expires)
	s.RefreshExpiresAt = fromUnix(refreshExpires)

	rows, err := r.db.QueryContext(ctx,
		`SELECT hash FROM session_previous_hashes WHERE session_id = ? ORDER BY seq`, s.ID)
	if err != nil {
		return domain.Session{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return domain.Session{}, err
		}
		s.PreviousHashes = append(s.PreviousHashes, h)
	}
	return s, rows.Err()
}
