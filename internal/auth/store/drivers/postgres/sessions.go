package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/jackc/pgx/v5"
)

type sessionsRepo struct {
	q querier
}

const sessionColumns = `s.id, s.user_id, s.username, s.created_at, s.last_activity,
	s.expires_at, s.refresh_hash, s.refresh_expires_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	if len(s.PreviousHashes) > 0 {
		return errors.New("postgres: new session must not carry previous hashes")
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO sessions (
			id, user_id, username, created_at, last_activity,
			expires_at, refresh_hash, refresh_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.UserID, s.Username,
		s.CreatedAt.UTC(), s.LastActivity.UTC(),
		s.ExpiresAt.UTC(), s.RefreshHash, s.RefreshExpiresAt.UTC(),
	)
	return mapUnique(err)
}

// GetSessionByRefreshHash locks the row until the surrounding transaction
// ends.
func (r *sessionsRepo) GetSessionByRefreshHash(ctx context.Context, hash string) (domain.Session, error) {
	return r.load(ctx, r.q.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s
		WHERE s.refresh_hash = $1
		FOR UPDATE
	`, hash))
}

func (r *sessionsRepo) GetSessionByPreviousHash(ctx context.Context, hash string) (domain.Session, error) {
	return r.load(ctx, r.q.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s
		JOIN session_previous_hashes p ON p.session_id = s.id
		WHERE p.hash = $1
		FOR UPDATE OF s
	`, hash))
}

func (r *sessionsRepo) RotateSession(
	ctx context.Context,
	id, oldHash, newHash string,
	refreshExpiresAt, lastActivity time.Time,
) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sessions
		SET refresh_hash = $3, refresh_expires_at = $4, last_activity = $5
		WHERE id = $1 AND refresh_hash = $2
	`, id, oldHash, newHash, refreshExpiresAt.UTC(), lastActivity.UTC())
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO session_previous_hashes (hash, session_id) VALUES ($1, $2)
	`, oldHash, id)
	return mapUnique(err)
}

// DeleteSession relies on ON DELETE CASCADE for the previous hashes.
func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1 OR refresh_expires_at < $1
	`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionsRepo) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

func (r *sessionsRepo) load(ctx context.Context, row pgx.Row) (domain.Session, error) {
	var s domain.Session
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Username, &s.CreatedAt, &s.LastActivity,
		&s.ExpiresAt, &s.RefreshHash, &s.RefreshExpiresAt,
	); err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT hash FROM session_previous_hashes WHERE session_id = $1 ORDER BY seq
	`, s.ID)
	if err != nil {
		return domain.Session{}, err
	}
	hashes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return domain.Session{}, err
	}
	if len(hashes) > 0 {
		s.PreviousHashes = hashes
	}
	return s, nil
}
