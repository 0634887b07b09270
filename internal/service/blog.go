package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

type BlogRepo interface {
	CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error)
	GetBlogByID(ctx context.Context, blogID int64) (*model.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementBlogViewCount(ctx context.Context, blogID int64) (int64, error)
	ListBlogs(ctx context.Context, status string, limit, offset int) ([]model.Blog, int64, error)
	ListBlogsByAuthor(ctx context.Context, authorID int64, status string, limit, offset int) ([]model.Blog, int64, error)
	UpdateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error)
	DeleteBlog(ctx context.Context, blogID int64) (bool, error)
}

type Media interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// BannerUpload carries the raw banner_image file part.
type BannerUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type BlogService struct {
	repo  BlogRepo
	media Media
}

func NewBlogService(repo BlogRepo, media Media) *BlogService {
	return &BlogService{repo: repo, media: media}
}

func (s *BlogService) CreateBlog(ctx context.Context, authorID int64, req model.CreateBlogRequest, banner *BannerUpload) (*model.Blog, error) {
	if banner == nil {
		return nil, ErrInvalidInput
	}

	status := req.Status
	if status == "" {
		status = model.BlogStatusDraft
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	bannerMeta, err := s.uploadBanner(ctx, banner)
	if err != nil {
		return nil, err
	}

	blog, err := s.repo.CreateBlog(ctx, &model.Blog{
		Title:    req.Title,
		Slug:     slug,
		Content:  req.Content,
		Banner:   *bannerMeta,
		AuthorID: authorID,
		Status:   status,
	})
	if err != nil {
		_ = s.media.Delete(ctx, bannerMeta.PublicID)
		return nil, err
	}
	return blog, nil
}

// GetBlogBySlug returns the blog and counts the view. Drafts are only
// visible when includeDrafts is set (admin callers).
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.Blog, error) {
	blog, err := s.repo.GetBlogBySlug(ctx, slug)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if blog.Status != model.BlogStatusPublished && !includeDrafts {
		return nil, ErrNotFound
	}

	viewCount, err := s.repo.IncrementBlogViewCount(ctx, blog.ID)
	if err != nil {
		return nil, err
	}
	blog.ViewCount = viewCount
	return blog, nil
}

func (s *BlogService) ListBlogs(ctx context.Context, includeDrafts bool, limit, offset int) ([]model.Blog, int64, error) {
	return s.repo.ListBlogs(ctx, listStatus(includeDrafts), limit, offset)
}

func (s *BlogService) ListBlogsByAuthor(ctx context.Context, authorID int64, includeDrafts bool, limit, offset int) ([]model.Blog, int64, error) {
	return s.repo.ListBlogsByAuthor(ctx, authorID, listStatus(includeDrafts), limit, offset)
}

func (s *BlogService) UpdateBlog(ctx context.Context, blogID int64, req model.UpdateBlogRequest, banner *BannerUpload) (*model.Blog, error) {
	blog, err := s.repo.GetBlogByID(ctx, blogID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil && *req.Title != blog.Title {
		blog.Title = *req.Title
		slug, err := s.uniqueSlug(ctx, blog.Title)
		if err != nil {
			return nil, err
		}
		blog.Slug = slug
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Status != nil {
		blog.Status = *req.Status
	}

	oldBannerKey := ""
	if banner != nil {
		bannerMeta, err := s.uploadBanner(ctx, banner)
		if err != nil {
			return nil, err
		}
		oldBannerKey = blog.Banner.PublicID
		blog.Banner = *bannerMeta
	}

	updated, err := s.repo.UpdateBlog(ctx, blog)
	if err != nil {
		return nil, err
	}
	if oldBannerKey != "" {
		_ = s.media.Delete(ctx, oldBannerKey)
	}
	return updated, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, blogID int64) error {
	blog, err := s.repo.GetBlogByID(ctx, blogID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	deleted, err := s.repo.DeleteBlog(ctx, blogID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	if blog.Banner.PublicID != "" {
		_ = s.media.Delete(ctx, blog.Banner.PublicID)
	}
	return nil
}

func (s *BlogService) uploadBanner(ctx context.Context, banner *BannerUpload) (*model.Banner, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(banner.Data))
	if err != nil {
		return nil, ErrInvalidInput
	}

	ext := strings.ToLower(path.Ext(banner.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := "blog-banners/" + uuid.NewString() + ext

	url, err := s.media.Upload(ctx, key, banner.Data, banner.ContentType)
	if err != nil {
		return nil, err
	}

	return &model.Banner{
		PublicID: key,
		URL:      url,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)
	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return fmt.Sprintf("%s-%s", slug, strings.ReplaceAll(uuid.NewString(), "-", "")[:8]), nil
}

func slugify(title string) string {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

func listStatus(includeDrafts bool) string {
	if includeDrafts {
		return ""
	}
	return model.BlogStatusPublished
}
