package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/quillapi/backend/internal/model"
	"github.com/quillapi/backend/internal/service"
)

type fakeVerifier struct {
	tokens map[string]*model.AuthUser
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*model.AuthUser, error) {
	if user, ok := f.tokens[token]; ok {
		return user, nil
	}
	return nil, service.ErrUnauthenticated
}

type fakeRoleLoader struct {
	users map[int64]*model.User
}

func (f *fakeRoleLoader) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func gateRouter() (*gin.Engine, *fakeVerifier, *fakeRoleLoader) {
	gin.SetMode(gin.TestMode)

	verifier := &fakeVerifier{tokens: map[string]*model.AuthUser{
		"admin-token": {ID: 1},
		"user-token":  {ID: 2},
		"ghost-token": {ID: 3},
	}}
	users := &fakeRoleLoader{users: map[int64]*model.User{
		1: {ID: 1, Username: "root", Role: model.RoleAdmin},
		2: {ID: 2, Username: "alice", Role: model.RoleUser},
	}}

	r := gin.New()
	r.GET("/admin-only", Authenticate(verifier), Authorize(users, model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetCurrentUser(c).Username})
	})
	r.GET("/any-role", Authenticate(verifier), Authorize(users, model.RoleAdmin, model.RoleUser), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetAuthUser(c).ID})
	})
	return r, verifier, users
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return body.Code
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r, _, _ := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any-role", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if code := errCode(t, w); code != model.CodeAuthenticationError {
		t.Fatalf("expected AuthenticationError, got %s", code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r, _, _ := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any-role", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthorizeForbiddenForUserRole(t *testing.T) {
	r, _, _ := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if code := errCode(t, w); code != model.CodeAuthorizationError {
		t.Fatalf("expected AuthorizationError, got %s", code)
	}
}

func TestAuthorizeAdmitsAdmin(t *testing.T) {
	r, _, _ := gateRouter()

	for _, path := range []string{"/admin-only", "/any-role"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestAuthorizeUserDeletedAfterIssuance(t *testing.T) {
	r, _, _ := gateRouter()

	// Token still verifies but the identity is gone.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/any-role", nil)
	req.Header.Set("Authorization", "Bearer ghost-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}, true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestCORSAllowsWhitelistedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}, true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}
