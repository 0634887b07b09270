package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, model.ErrorResponse{Code: code, Message: message})
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Code: code, Message: message})
}

// writeBindingError surfaces request validation failures with
// field-level detail when the binding library provides it.
func writeBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
			details[field] = fmt.Sprintf("failed on the %q rule", fe.Tag())
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    model.CodeValidationError,
			Message: "Request validation failed",
			Errors:  details,
		})
		return
	}
	writeError(c, http.StatusBadRequest, model.CodeValidationError, "Invalid request body")
}

// writeServiceError maps the service failure taxonomy onto the HTTP
// error contract. Unexpected failures are logged with operation
// context and answered with a generic message.
func writeServiceError(c *gin.Context, logger zerolog.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, model.CodeValidationError, "Invalid input")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusBadRequest, model.CodeBadRequest, "Email or password is invalid")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Credential is missing, invalid or expired")
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, model.CodeAuthorizationError, "Access denied, insufficient permissions")
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, model.CodeNotFound, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		writeError(c, http.StatusConflict, model.CodeConflict, "Resource already exists")
	case errors.Is(err, service.ErrAlreadyLiked):
		writeError(c, http.StatusBadRequest, model.CodeBadRequest, "You have already liked this blog")
	default:
		event := logger.Error().Err(err).Str("operation", op)
		if user := GetAuthUser(c); user != nil {
			event = event.Int64("userId", user.ID)
		}
		event.Msg("request failed")
		writeError(c, http.StatusInternalServerError, model.CodeServerError, "Internal server error")
	}
}
