package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillapi/backend/internal/config"
)

// Token purposes. The purpose claim pins a token to one class so a
// refresh token can never stand in for an access token or vice versa.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrMisconfigured = errors.New("auth config invalid")
)

type tokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed, time-boxed tokens. Access
// and refresh tokens use distinct secrets, so compromise of one key
// does not compromise the other token class.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type TokenManagerOption func(*TokenManager)

// WithNowTime overrides the clock (for tests).
func WithNowTime(nowFunc func() time.Time) TokenManagerOption {
	return func(tm *TokenManager) {
		tm.now = nowFunc
	}
}

func NewTokenManager(cfg config.AuthConfig, options ...TokenManagerOption) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required", ErrMisconfigured)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ACCESS_TOKEN_EXPIRY", ErrMisconfigured)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid REFRESH_TOKEN_EXPIRY", ErrMisconfigured)
	}

	tm := &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range options {
		opt(tm)
	}
	return tm, nil
}

func (tm *TokenManager) IssueAccessToken(userID int64) (string, error) {
	return tm.issue(userID, PurposeAccess, tm.accessSecret, tm.accessTTL)
}

func (tm *TokenManager) IssueRefreshToken(userID int64) (string, error) {
	return tm.issue(userID, PurposeRefresh, tm.refreshSecret, tm.refreshTTL)
}

func (tm *TokenManager) issue(userID int64, purpose string, secret []byte, ttl time.Duration) (string, error) {
	now := tm.now()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks signature, expiry and purpose, and returns the bound
// user id. It is a pure function of the token and the class secret.
func (tm *TokenManager) Verify(tokenStr, purpose string) (int64, error) {
	secret := tm.accessSecret
	if purpose == PurposeRefresh {
		secret = tm.refreshSecret
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid || claims.Purpose != purpose {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

func (tm *TokenManager) RefreshTTL() time.Duration {
	return tm.refreshTTL
}
