package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

type CommentHandler struct {
	svc    *service.CommentService
	logger zerolog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

// Create godoc
// @Summary Comment on a blog
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Param request body model.CreateCommentRequest true "Comment content"
// @Success 201 {object} model.Comment
// @Failure 400,401,404 {object} model.ErrorResponse
// @Router /api/v1/comments/blog/{blogId} [post]
func (h *CommentHandler) Create(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), blogID, GetAuthUser(c).ID, req.Content)
	if err != nil {
		writeServiceError(c, h.logger, "comments.create", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListByBlog godoc
// @Summary List a blog's comments, newest first
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Success 200 {object} model.CommentListResponse
// @Failure 400,401,404 {object} model.ErrorResponse
// @Router /api/v1/comments/blog/{blogId} [get]
func (h *CommentHandler) ListByBlog(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), blogID)
	if err != nil {
		writeServiceError(c, h.logger, "comments.list", err)
		return
	}
	c.JSON(http.StatusOK, model.CommentListResponse{Comments: comments})
}

// Delete godoc
// @Summary Delete a comment (author or admin)
// @Tags comments
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 400,401,403,404 {object} model.ErrorResponse
// @Router /api/v1/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	actor := GetCurrentUser(c)
	if actor == nil {
		writeError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), commentID, actor); err != nil {
		writeServiceError(c, h.logger, "comments.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
