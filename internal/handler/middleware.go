package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
)

const (
	authUserKey    = "auth_user"
	currentUserKey = "current_user"
)

type accessTokenVerifier interface {
	VerifyAccessToken(token string) (*model.AuthUser, error)
}

type roleLoader interface {
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

// Authenticate resolves the caller's identity from the bearer token and
// attaches it to the request context. It never attempts a silent
// refresh; expired and malformed tokens both end the request with 401.
func Authenticate(verifier accessTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			abortError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
			return
		}

		user, err := verifier.VerifyAccessToken(token)
		if err != nil {
			abortError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// Authorize admits the request when the caller's role is in the allowed
// set. The role is read fresh from the credential store so role changes
// take effect immediately, not at token expiry. Must run after
// Authenticate.
func Authorize(users roleLoader, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		authUser := GetAuthUser(c)
		if authUser == nil {
			abortError(c, http.StatusUnauthorized, model.CodeAuthenticationError, "Access token is missing or invalid")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), authUser.ID)
		if err != nil {
			if db.IsNoRows(err) {
				abortError(c, http.StatusNotFound, model.CodeNotFound, "User not found")
				return
			}
			abortError(c, http.StatusInternalServerError, model.CodeServerError, "Internal server error")
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			abortError(c, http.StatusForbidden, model.CodeAuthorizationError, "Access denied, insufficient permissions")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

// GetCurrentUser returns the full identity loaded by Authorize.
func GetCurrentUser(c *gin.Context) *model.User {
	if value, ok := c.Get(currentUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
