package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/quillapi/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Hello World", want: "hello-world"},
		{name: "punctuation", title: "Go 1.24: What's New?", want: "go-1-24-what-s-new"},
		{name: "leading-trailing", title: "  --Spaces--  ", want: "spaces"},
		{name: "unicode-stripped", title: "Caffè ☕ Break", want: "caff-break"},
		{name: "empty", title: "!!!", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.title); got != tt.want {
				t.Fatalf("slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

type fakeBlogRepo struct {
	blogs  map[int64]*model.Blog
	nextID int64
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[int64]*model.Blog)}
}

func (f *fakeBlogRepo) CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	f.nextID++
	stored := *blog
	stored.ID = f.nextID
	f.blogs[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeBlogRepo) GetBlogByID(ctx context.Context, blogID int64) (*model.Blog, error) {
	if blog, ok := f.blogs[blogID]; ok {
		return blog, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBlogRepo) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	for _, blog := range f.blogs {
		if blog.Slug == slug {
			return blog, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBlogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := f.GetBlogBySlug(ctx, slug)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeBlogRepo) IncrementBlogViewCount(ctx context.Context, blogID int64) (int64, error) {
	blog, ok := f.blogs[blogID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	blog.ViewCount++
	return blog.ViewCount, nil
}

func (f *fakeBlogRepo) ListBlogs(ctx context.Context, status string, limit, offset int) ([]model.Blog, int64, error) {
	out := []model.Blog{}
	for _, blog := range f.blogs {
		if status == "" || blog.Status == status {
			out = append(out, *blog)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBlogRepo) ListBlogsByAuthor(ctx context.Context, authorID int64, status string, limit, offset int) ([]model.Blog, int64, error) {
	out := []model.Blog{}
	for _, blog := range f.blogs {
		if blog.AuthorID == authorID && (status == "" || blog.Status == status) {
			out = append(out, *blog)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBlogRepo) UpdateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	if _, ok := f.blogs[blog.ID]; !ok {
		return nil, pgx.ErrNoRows
	}
	stored := *blog
	f.blogs[blog.ID] = &stored
	return &stored, nil
}

func (f *fakeBlogRepo) DeleteBlog(ctx context.Context, blogID int64) (bool, error) {
	if _, ok := f.blogs[blogID]; !ok {
		return false, nil
	}
	delete(f.blogs, blogID)
	return true, nil
}

type fakeMedia struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{uploaded: make(map[string][]byte)}
}

func (f *fakeMedia) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.uploaded[key] = data
	return "https://media.example.com/" + key, nil
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploaded, key)
	return nil
}

func pngBanner(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestCreateBlogUploadsBanner(t *testing.T) {
	repo := newFakeBlogRepo()
	media := newFakeMedia()
	svc := NewBlogService(repo, media)

	blog, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{
		Title:   "My First Post",
		Content: "Hello",
		Status:  model.BlogStatusPublished,
	}, &BannerUpload{Data: pngBanner(t, 1200, 630), ContentType: "image/png", Filename: "banner.png"})
	require.NoError(t, err)

	assert.Equal(t, "my-first-post", blog.Slug)
	assert.Equal(t, 1200, blog.Banner.Width)
	assert.Equal(t, 630, blog.Banner.Height)
	assert.Contains(t, blog.Banner.URL, blog.Banner.PublicID)
	assert.Len(t, media.uploaded, 1)
}

func TestCreateBlogRejectsBadImage(t *testing.T) {
	svc := NewBlogService(newFakeBlogRepo(), newFakeMedia())

	_, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{
		Title:   "Post",
		Content: "Hello",
	}, &BannerUpload{Data: []byte("not an image"), ContentType: "image/png", Filename: "x.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDuplicateTitlesGetDistinctSlugs(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, newFakeMedia())

	banner := func() *BannerUpload {
		return &BannerUpload{Data: pngBanner(t, 10, 10), ContentType: "image/png", Filename: "b.png"}
	}

	first, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{Title: "Same Title", Content: "a"}, banner())
	require.NoError(t, err)
	second, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{Title: "Same Title", Content: "b"}, banner())
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "same-title-")
}

func TestGetBlogBySlugHidesDrafts(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, newFakeMedia())

	blog, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{
		Title:   "Draft Post",
		Content: "wip",
	}, &BannerUpload{Data: pngBanner(t, 10, 10), ContentType: "image/png", Filename: "b.png"})
	require.NoError(t, err)

	_, err = svc.GetBlogBySlug(context.Background(), blog.Slug, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetBlogBySlug(context.Background(), blog.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestDeleteBlogRemovesBanner(t *testing.T) {
	repo := newFakeBlogRepo()
	media := newFakeMedia()
	svc := NewBlogService(repo, media)

	blog, err := svc.CreateBlog(context.Background(), 1, model.CreateBlogRequest{
		Title:   "Post",
		Content: "bye",
	}, &BannerUpload{Data: pngBanner(t, 10, 10), ContentType: "image/png", Filename: "b.png"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlog(context.Background(), blog.ID))
	assert.Contains(t, media.deleted, blog.Banner.PublicID)

	assert.ErrorIs(t, svc.DeleteBlog(context.Background(), blog.ID), ErrNotFound)
}
