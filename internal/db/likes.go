package db

import "context"

func (db *Postgres) LikeExists(ctx context.Context, blogID, userID int64) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE blog_id = $1 AND user_id = $2)`,
		blogID, userID,
	).Scan(&exists)
	return exists, err
}

// InsertLike records the like and bumps the counter transactionally,
// returning the new likes count.
func (db *Postgres) InsertLike(ctx context.Context, blogID, userID int64) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO likes (blog_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`, blogID, userID); err != nil {
		return 0, err
	}

	var likesCount int64
	if err = tx.QueryRow(ctx, `
		UPDATE blogs SET likes_count = likes_count + 1 WHERE id = $1
		RETURNING likes_count
	`, blogID).Scan(&likesCount); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return likesCount, nil
}

// DeleteLike removes the like if present; reports whether a row was
// removed along with the resulting likes count.
func (db *Postgres) DeleteLike(ctx context.Context, blogID, userID int64) (bool, int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID)
	if err != nil {
		return false, 0, err
	}
	removed := tag.RowsAffected() > 0

	var likesCount int64
	if removed {
		err = tx.QueryRow(ctx, `
			UPDATE blogs SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1
			RETURNING likes_count
		`, blogID).Scan(&likesCount)
	} else {
		err = tx.QueryRow(ctx, `SELECT likes_count FROM blogs WHERE id = $1`, blogID).Scan(&likesCount)
	}
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return removed, likesCount, nil
}
