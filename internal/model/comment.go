package model

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	BlogID    int64     `json:"blogId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentListResponse struct {
	Comments []Comment `json:"comments"`
}
