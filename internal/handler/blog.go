package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

const maxBannerBytes = 2 << 20

type BlogHandler struct {
	svc    *service.BlogService
	logger zerolog.Logger
}

func NewBlogHandler(svc *service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{svc: svc, logger: logger}
}

// Create godoc
// @Summary Create a blog
// @Tags blogs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param status formData string false "draft or published"
// @Param banner_image formData file true "Banner image"
// @Success 201 {object} model.Blog
// @Failure 400,401,403 {object} model.ErrorResponse
// @Router /api/v1/blogs [post]
func (h *BlogHandler) Create(c *gin.Context) {
	var req model.CreateBlogRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	banner, ok := readBanner(c, true)
	if !ok {
		return
	}

	blog, err := h.svc.CreateBlog(c.Request.Context(), GetAuthUser(c).ID, req, banner)
	if err != nil {
		writeServiceError(c, h.logger, "blogs.create", err)
		return
	}

	h.logger.Info().Int64("blogId", blog.ID).Str("slug", blog.Slug).Msg("blog created")
	c.JSON(http.StatusCreated, blog)
}

// List godoc
// @Summary List blogs
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} model.BlogListResponse
// @Failure 400,401 {object} model.ErrorResponse
// @Router /api/v1/blogs [get]
func (h *BlogHandler) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	blogs, total, err := h.svc.ListBlogs(c.Request.Context(), isAdmin(c), limit, offset)
	if err != nil {
		writeServiceError(c, h.logger, "blogs.list", err)
		return
	}
	c.JSON(http.StatusOK, model.BlogListResponse{Limit: limit, Offset: offset, Total: total, Blogs: blogs})
}

// ListByAuthor godoc
// @Summary List blogs by author
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Author user ID"
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} model.BlogListResponse
// @Failure 400,401 {object} model.ErrorResponse
// @Router /api/v1/blogs/user/{userId} [get]
func (h *BlogHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	blogs, total, err := h.svc.ListBlogsByAuthor(c.Request.Context(), authorID, isAdmin(c), limit, offset)
	if err != nil {
		writeServiceError(c, h.logger, "blogs.listByAuthor", err)
		return
	}
	c.JSON(http.StatusOK, model.BlogListResponse{Limit: limit, Offset: offset, Total: total, Blogs: blogs})
}

// GetBySlug godoc
// @Summary Get a blog by slug
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Blog slug"
// @Success 200 {object} model.Blog
// @Failure 401,404 {object} model.ErrorResponse
// @Router /api/v1/blogs/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	blog, err := h.svc.GetBlogBySlug(c.Request.Context(), c.Param("slug"), isAdmin(c))
	if err != nil {
		writeServiceError(c, h.logger, "blogs.getBySlug", err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// Update godoc
// @Summary Update a blog
// @Tags blogs
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Success 200 {object} model.Blog
// @Failure 400,401,403,404 {object} model.ErrorResponse
// @Router /api/v1/blogs/{blogId} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	var req model.UpdateBlogRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	banner, ok := readBanner(c, false)
	if !ok {
		return
	}

	blog, err := h.svc.UpdateBlog(c.Request.Context(), blogID, req, banner)
	if err != nil {
		writeServiceError(c, h.logger, "blogs.update", err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// Delete godoc
// @Summary Delete a blog
// @Tags blogs
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Success 204
// @Failure 400,401,403,404 {object} model.ErrorResponse
// @Router /api/v1/blogs/{blogId} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	if err := h.svc.DeleteBlog(c.Request.Context(), blogID); err != nil {
		writeServiceError(c, h.logger, "blogs.delete", err)
		return
	}

	h.logger.Info().Int64("blogId", blogID).Msg("blog deleted")
	c.Status(http.StatusNoContent)
}

// readBanner pulls the banner_image file part. A missing part is an
// error only when required.
func readBanner(c *gin.Context, required bool) (*service.BannerUpload, bool) {
	fileHeader, err := c.FormFile("banner_image")
	if err != nil {
		if required {
			writeError(c, http.StatusBadRequest, model.CodeValidationError, "Banner image is required")
			return nil, false
		}
		return nil, true
	}

	if fileHeader.Size > maxBannerBytes {
		writeError(c, http.StatusBadRequest, model.CodeValidationError, "Banner image must be smaller than 2MB")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, model.CodeValidationError, "Banner image could not be read")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBannerBytes+1))
	if err != nil || int64(len(data)) > maxBannerBytes {
		writeError(c, http.StatusBadRequest, model.CodeValidationError, "Banner image could not be read")
		return nil, false
	}

	return &service.BannerUpload{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Filename:    fileHeader.Filename,
	}, true
}

func isAdmin(c *gin.Context) bool {
	user := GetCurrentUser(c)
	return user != nil && user.Role == model.RoleAdmin
}
