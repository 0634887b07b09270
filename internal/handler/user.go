package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	svc    *service.UserService
	logger zerolog.Logger
}

func NewUserHandler(svc *service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// GetCurrent godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/current [get]
func (h *UserHandler) GetCurrent(c *gin.Context) {
	user := GetCurrentUser(c)
	if user == nil {
		writeError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// UpdateCurrent godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.PublicUser
// @Failure 400,401,409 {object} model.ErrorResponse
// @Router /api/v1/users/current [put]
func (h *UserHandler) UpdateCurrent(c *gin.Context) {
	authUser := GetAuthUser(c)

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	updated, err := h.svc.UpdateUser(c.Request.Context(), authUser.ID, req)
	if err != nil {
		writeServiceError(c, h.logger, "users.updateCurrent", err)
		return
	}
	c.JSON(http.StatusOK, updated.Public())
}

// DeleteCurrent godoc
// @Summary Delete the authenticated user's account
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/current [delete]
func (h *UserHandler) DeleteCurrent(c *gin.Context) {
	authUser := GetAuthUser(c)
	if err := h.svc.DeleteUser(c.Request.Context(), authUser.ID); err != nil {
		writeServiceError(c, h.logger, "users.deleteCurrent", err)
		return
	}

	h.logger.Info().Int64("userId", authUser.ID).Msg("account deleted")
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} model.UserListResponse
// @Failure 400,401,403 {object} model.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	users, total, err := h.svc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, h.logger, "users.list", err)
		return
	}

	publicUsers := make([]model.PublicUser, 0, len(users))
	for i := range users {
		publicUsers = append(publicUsers, users[i].Public())
	}
	c.JSON(http.StatusOK, model.UserListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Users:  publicUsers,
	})
}

// Get godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 400,401,403,404 {object} model.ErrorResponse
// @Router /api/v1/users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "users.get", err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Delete godoc
// @Summary Delete a user by id
// @Tags users
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 204
// @Failure 400,401,403,404 {object} model.ErrorResponse
// @Router /api/v1/users/{userId} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), userID); err != nil {
		writeServiceError(c, h.logger, "users.delete", err)
		return
	}

	h.logger.Info().Int64("userId", userID).Msg("user deleted by admin")
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, model.CodeValidationError, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = 20
	offset = 0

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			writeError(c, http.StatusBadRequest, model.CodeValidationError, "Limit must be between 1 and 50")
			return 0, 0, false
		}
		limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(c, http.StatusBadRequest, model.CodeValidationError, "Offset must be a positive integer")
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}
