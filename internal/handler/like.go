package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

type LikeHandler struct {
	svc    *service.LikeService
	logger zerolog.Logger
}

func NewLikeHandler(svc *service.LikeService, logger zerolog.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, logger: logger}
}

// Like godoc
// @Summary Like a blog
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Success 200 {object} model.LikeCountResponse
// @Failure 400,401,404 {object} model.ErrorResponse
// @Router /api/v1/likes/blog/{blogId} [post]
func (h *LikeHandler) Like(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	likesCount, err := h.svc.LikeBlog(c.Request.Context(), blogID, GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, h.logger, "likes.like", err)
		return
	}
	c.JSON(http.StatusOK, model.LikeCountResponse{LikesCount: likesCount})
}

// Unlike godoc
// @Summary Remove a like from a blog
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param blogId path int true "Blog ID"
// @Success 200 {object} model.LikeCountResponse
// @Failure 400,401,404 {object} model.ErrorResponse
// @Router /api/v1/likes/blog/{blogId} [delete]
func (h *LikeHandler) Unlike(c *gin.Context) {
	blogID, ok := parseIDParam(c, "blogId")
	if !ok {
		return
	}

	likesCount, err := h.svc.UnlikeBlog(c.Request.Context(), blogID, GetAuthUser(c).ID)
	if err != nil {
		writeServiceError(c, h.logger, "likes.unlike", err)
		return
	}
	c.JSON(http.StatusOK, model.LikeCountResponse{LikesCount: likesCount})
}
