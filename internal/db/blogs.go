package db

import (
	"context"

	"github.com/quillapi/backend/internal/model"
)

const blogColumns = `id, title, slug, content, banner_public_id, banner_url, banner_width, banner_height,
	author_id, view_count, likes_count, comments_count, status, published_at, updated_at`

func scanBlog(row interface{ Scan(dest ...any) error }) (*model.Blog, error) {
	var blog model.Blog
	err := row.Scan(
		&blog.ID,
		&blog.Title,
		&blog.Slug,
		&blog.Content,
		&blog.Banner.PublicID,
		&blog.Banner.URL,
		&blog.Banner.Width,
		&blog.Banner.Height,
		&blog.AuthorID,
		&blog.ViewCount,
		&blog.LikesCount,
		&blog.CommentsCount,
		&blog.Status,
		&blog.PublishedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (db *Postgres) CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	query := `
		INSERT INTO blogs (title, slug, content, banner_public_id, banner_url, banner_width, banner_height,
			author_id, status, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + blogColumns
	return scanBlog(db.Pool.QueryRow(ctx, query,
		blog.Title,
		blog.Slug,
		blog.Content,
		blog.Banner.PublicID,
		blog.Banner.URL,
		blog.Banner.Width,
		blog.Banner.Height,
		blog.AuthorID,
		blog.Status,
	))
}

func (db *Postgres) GetBlogByID(ctx context.Context, blogID int64) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	return scanBlog(db.Pool.QueryRow(ctx, query, blogID))
}

func (db *Postgres) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE slug = $1`
	return scanBlog(db.Pool.QueryRow(ctx, query, slug))
}

func (db *Postgres) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (db *Postgres) IncrementBlogViewCount(ctx context.Context, blogID int64) (int64, error) {
	var viewCount int64
	err := db.Pool.QueryRow(ctx, `
		UPDATE blogs SET view_count = view_count + 1 WHERE id = $1
		RETURNING view_count
	`, blogID).Scan(&viewCount)
	return viewCount, err
}

// ListBlogs pages newest-first. An empty status returns every blog,
// otherwise only blogs in that status are visible.
func (db *Postgres) ListBlogs(ctx context.Context, status string, limit, offset int) ([]model.Blog, int64, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE ($1 = '' OR status = $1)
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (db *Postgres) ListBlogsByAuthor(ctx context.Context, authorID int64, status string, limit, offset int) ([]model.Blog, int64, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE author_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY published_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := db.Pool.Query(ctx, query, authorID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM blogs WHERE author_id = $1 AND ($2 = '' OR status = $2)`,
		authorID, status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (db *Postgres) UpdateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	query := `
		UPDATE blogs
		SET title = $2,
			slug = $3,
			content = $4,
			banner_public_id = $5,
			banner_url = $6,
			banner_width = $7,
			banner_height = $8,
			status = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + blogColumns
	return scanBlog(db.Pool.QueryRow(ctx, query,
		blog.ID,
		blog.Title,
		blog.Slug,
		blog.Content,
		blog.Banner.PublicID,
		blog.Banner.URL,
		blog.Banner.Width,
		blog.Banner.Height,
		blog.Status,
	))
}

func (db *Postgres) DeleteBlog(ctx context.Context, blogID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, blogID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
