package model

import "time"

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

type Banner struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type Blog struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Banner        Banner    `json:"banner"`
	AuthorID      int64     `json:"authorId"`
	ViewCount     int64     `json:"viewCount"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	Status        string    `json:"status"`
	PublishedAt   time.Time `json:"publishedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateBlogRequest binds the multipart form fields; the banner image
// arrives as the banner_image file part.
type CreateBlogRequest struct {
	Title   string `form:"title" binding:"required,max=180"`
	Content string `form:"content" binding:"required"`
	Status  string `form:"status" binding:"omitempty,oneof=draft published"`
}

type UpdateBlogRequest struct {
	Title   *string `form:"title" binding:"omitempty,max=180"`
	Content *string `form:"content" binding:"omitempty"`
	Status  *string `form:"status" binding:"omitempty,oneof=draft published"`
}

type BlogListResponse struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Total  int64  `json:"total"`
	Blogs  []Blog `json:"blogs"`
}
