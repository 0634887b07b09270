package service

import (
	"context"

	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
)

type LikeRepo interface {
	LikeExists(ctx context.Context, blogID, userID int64) (bool, error)
	InsertLike(ctx context.Context, blogID, userID int64) (int64, error)
	DeleteLike(ctx context.Context, blogID, userID int64) (bool, int64, error)
}

type likeBlogRepo interface {
	GetBlogByID(ctx context.Context, blogID int64) (*model.Blog, error)
}

type LikeService struct {
	repo  LikeRepo
	blogs likeBlogRepo
}

func NewLikeService(repo LikeRepo, blogs likeBlogRepo) *LikeService {
	return &LikeService{repo: repo, blogs: blogs}
}

// LikeBlog records a like; liking the same blog twice fails.
func (s *LikeService) LikeBlog(ctx context.Context, blogID, userID int64) (int64, error) {
	if err := s.blogExists(ctx, blogID); err != nil {
		return 0, err
	}

	liked, err := s.repo.LikeExists(ctx, blogID, userID)
	if err != nil {
		return 0, err
	}
	if liked {
		return 0, ErrAlreadyLiked
	}

	likesCount, err := s.repo.InsertLike(ctx, blogID, userID)
	if err != nil {
		// Concurrent double-like loses to the unique constraint.
		if db.IsUniqueViolation(err) {
			return 0, ErrAlreadyLiked
		}
		return 0, err
	}
	return likesCount, nil
}

func (s *LikeService) UnlikeBlog(ctx context.Context, blogID, userID int64) (int64, error) {
	if err := s.blogExists(ctx, blogID); err != nil {
		return 0, err
	}

	removed, likesCount, err := s.repo.DeleteLike(ctx, blogID, userID)
	if err != nil {
		return 0, err
	}
	if !removed {
		return 0, ErrNotFound
	}
	return likesCount, nil
}

func (s *LikeService) blogExists(ctx context.Context, blogID int64) error {
	if _, err := s.blogs.GetBlogByID(ctx, blogID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
