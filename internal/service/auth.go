package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/quillapi/backend/internal/config"
	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	refreshCookieName   = "refreshToken"
	maxUsernameAttempts = 5
)

type CredentialRepo interface {
	CreateUser(ctx context.Context, username, email, passwordHash, role string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type SessionRepo interface {
	InsertRefreshSession(ctx context.Context, userID int64, tokenHash string) error
	GetRefreshSessionByHash(ctx context.Context, tokenHash string) (*model.RefreshSession, error)
	RevokeRefreshSessionByHash(ctx context.Context, tokenHash string) error
	RevokeAllRefreshSessions(ctx context.Context, userID int64) error
	RotateRefreshSession(ctx context.Context, oldSessionID, userID int64, newTokenHash string) error
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type AuthService struct {
	users     CredentialRepo
	sessions  SessionRepo
	tokens    *TokenManager
	cookieCfg CookieConfig
}

func NewAuthService(users CredentialRepo, sessions SessionRepo, tokens *TokenManager, cfg config.AuthConfig, production bool) (*AuthService, error) {
	cookieSecure := production
	if cfg.CookieSecure != "" {
		parsed, err := strconv.ParseBool(cfg.CookieSecure)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
		}
		cookieSecure = parsed
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}
	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		cookieCfg: CookieConfig{
			Name:     refreshCookieName,
			Path:     cfg.CookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(tokens.RefreshTTL().Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Register creates the identity and immediately opens a session for it.
// The role defaults to user when absent.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*model.User, string, string, error) {
	if role == "" {
		role = model.RoleUser
	}

	username, err := s.generateUsername(ctx)
	if err != nil {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.users.CreateUser(ctx, username, email, string(hash), role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, "", "", ErrConflict
		}
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// Login verifies credentials and opens a new refresh session.
// Concurrent logins for one user yield independent sessions.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", "", ErrNotFound
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token is rotated on every use: the presented session is
// revoked and replaced in one transaction, so a rotated-out token can
// never be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", ErrUnauthenticated
	}

	userID, err := s.tokens.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		return "", "", ErrUnauthenticated
	}

	session, err := s.sessions.GetRefreshSessionByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if db.IsNoRows(err) {
			return "", "", ErrUnauthenticated
		}
		return "", "", err
	}
	if session.RevokedAt != nil || session.UserID != userID {
		return "", "", ErrUnauthenticated
	}

	newRefreshToken, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	if err := s.sessions.RotateRefreshSession(ctx, session.ID, userID, hashToken(newRefreshToken)); err != nil {
		return "", "", err
	}

	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

// Logout revokes the presented refresh session. Revoking an unknown or
// already-revoked token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.sessions.RevokeRefreshSessionByHash(ctx, hashToken(refreshToken))
}

// RevokeAllSessions invalidates every outstanding refresh token for the
// user. Called on password change and account deletion.
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID int64) error {
	return s.sessions.RevokeAllRefreshSessions(ctx, userID)
}

// VerifyAccessToken resolves the identity bound to a bearer token.
func (s *AuthService) VerifyAccessToken(token string) (*model.AuthUser, error) {
	userID, err := s.tokens.Verify(token, PurposeAccess)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &model.AuthUser{ID: userID}, nil
}

func (s *AuthService) openSession(ctx context.Context, userID int64) (string, string, error) {
	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return "", "", err
	}

	if err := s.sessions.InsertRefreshSession(ctx, userID, hashToken(refreshToken)); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) generateUsername(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		username := "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		exists, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !exists {
			return username, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique username")
}

// Refresh tokens are persisted hashed so a leaked sessions table does
// not yield usable credentials.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func parseSameSite(value string) (http.SameSite, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}
