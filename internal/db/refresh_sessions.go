package db

import (
	"context"
	"time"

	"github.com/quillapi/backend/internal/model"
)

func (db *Postgres) InsertRefreshSession(ctx context.Context, userID int64, tokenHash string) error {
	query := `
		INSERT INTO refresh_sessions (user_id, token_hash, created_at)
		VALUES ($1, $2, NOW())
	`
	_, err := db.Pool.Exec(ctx, query, userID, tokenHash)
	return err
}

func (db *Postgres) GetRefreshSessionByHash(ctx context.Context, tokenHash string) (*model.RefreshSession, error) {
	query := `
		SELECT id, user_id, token_hash, revoked_at, created_at
		FROM refresh_sessions
		WHERE token_hash = $1
	`
	var session model.RefreshSession
	err := db.Pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (db *Postgres) RevokeRefreshSessionByHash(ctx context.Context, tokenHash string) error {
	query := `
		UPDATE refresh_sessions
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, tokenHash)
	return err
}

func (db *Postgres) RevokeAllRefreshSessions(ctx context.Context, userID int64) error {
	query := `
		UPDATE refresh_sessions
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, userID)
	return err
}

// RotateRefreshSession revokes the used session and records its
// replacement in one transaction, so a crash between the two steps
// cannot leave both tokens live.
func (db *Postgres) RotateRefreshSession(ctx context.Context, oldSessionID, userID int64, newTokenHash string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `
		UPDATE refresh_sessions
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`, oldSessionID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO refresh_sessions (user_id, token_hash, created_at)
		VALUES ($1, $2, NOW())
	`, userID, newTokenHash); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteRefreshSessionsBefore garbage-collects rows older than the
// cutoff. Expiry is enforced cryptographically, so this is hygiene,
// not a security boundary.
func (db *Postgres) DeleteRefreshSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM refresh_sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
