package model

import "time"

type Like struct {
	ID        int64     `json:"id"`
	BlogID    int64     `json:"blogId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeCountResponse struct {
	LikesCount int64 `json:"likesCount"`
}
