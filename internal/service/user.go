package service

import (
	"context"

	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, userID int64) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type UserService struct {
	repo     UserRepo
	sessions SessionRepo
}

func NewUserService(repo UserRepo, sessions SessionRepo) *UserService {
	return &UserService{repo: repo, sessions: sessions}
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies the partial update. Replacing the password
// re-hashes it and revokes every outstanding refresh session, so a
// stolen refresh token cannot outlive a credential reset.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.repo.UsernameExists(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
		user.Email = *req.Email
	}

	passwordChanged := false
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		passwordChanged = true
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	applySocialLinks(&user.SocialLinks, req)

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if passwordChanged {
		if err := s.sessions.RevokeAllRefreshSessions(ctx, userID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// DeleteUser removes the identity. Refresh sessions, blogs, comments
// and likes go with it via FK cascade.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	deleted, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func applySocialLinks(links *model.SocialLinks, req model.UpdateUserRequest) {
	if req.Website != nil {
		links.Website = *req.Website
	}
	if req.Facebook != nil {
		links.Facebook = *req.Facebook
	}
	if req.Instagram != nil {
		links.Instagram = *req.Instagram
	}
	if req.LinkedIn != nil {
		links.LinkedIn = *req.LinkedIn
	}
	if req.X != nil {
		links.X = *req.X
	}
	if req.YouTube != nil {
		links.YouTube = *req.YouTube
	}
}
