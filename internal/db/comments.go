package db

import (
	"context"

	"github.com/quillapi/backend/internal/model"
)

// InsertComment stores the comment and bumps the blog's counter in the
// same transaction.
func (db *Postgres) InsertComment(ctx context.Context, blogID, userID int64, content string) (*model.Comment, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var comment model.Comment
	err = tx.QueryRow(ctx, `
		INSERT INTO comments (blog_id, user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, blog_id, user_id, content, created_at
	`, blogID, userID, content).Scan(
		&comment.ID,
		&comment.BlogID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE blogs SET comments_count = comments_count + 1 WHERE id = $1
	`, blogID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) GetCommentByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, `
		SELECT id, blog_id, user_id, content, created_at
		FROM comments
		WHERE id = $1
	`, commentID).Scan(
		&comment.ID,
		&comment.BlogID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) ListCommentsByBlog(ctx context.Context, blogID int64) ([]model.Comment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, blog_id, user_id, content, created_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at DESC
	`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.BlogID,
			&comment.UserID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (db *Postgres) DeleteComment(ctx context.Context, commentID, blogID int64) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		if _, err = tx.Exec(ctx, `
			UPDATE blogs SET comments_count = GREATEST(comments_count - 1, 0) WHERE id = $1
		`, blogID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
