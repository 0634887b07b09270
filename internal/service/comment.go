package service

import (
	"context"

	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
)

type CommentRepo interface {
	InsertComment(ctx context.Context, blogID, userID int64, content string) (*model.Comment, error)
	GetCommentByID(ctx context.Context, commentID int64) (*model.Comment, error)
	ListCommentsByBlog(ctx context.Context, blogID int64) ([]model.Comment, error)
	DeleteComment(ctx context.Context, commentID, blogID int64) error
}

type commentBlogRepo interface {
	GetBlogByID(ctx context.Context, blogID int64) (*model.Blog, error)
}

type CommentService struct {
	repo  CommentRepo
	blogs commentBlogRepo
}

func NewCommentService(repo CommentRepo, blogs commentBlogRepo) *CommentService {
	return &CommentService{repo: repo, blogs: blogs}
}

func (s *CommentService) CreateComment(ctx context.Context, blogID, userID int64, content string) (*model.Comment, error) {
	if err := s.blogExists(ctx, blogID); err != nil {
		return nil, err
	}
	return s.repo.InsertComment(ctx, blogID, userID, content)
}

func (s *CommentService) ListComments(ctx context.Context, blogID int64) ([]model.Comment, error) {
	if err := s.blogExists(ctx, blogID); err != nil {
		return nil, err
	}
	return s.repo.ListCommentsByBlog(ctx, blogID)
}

// DeleteComment is allowed for the comment's author and for admins.
func (s *CommentService) DeleteComment(ctx context.Context, commentID int64, actor *model.User) error {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if actor.Role != model.RoleAdmin && comment.UserID != actor.ID {
		return ErrForbidden
	}
	return s.repo.DeleteComment(ctx, commentID, comment.BlogID)
}

func (s *CommentService) blogExists(ctx context.Context, blogID int64) error {
	if _, err := s.blogs.GetBlogByID(ctx, blogID); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
