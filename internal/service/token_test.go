package service

import (
	"testing"
	"time"

	"github.com/quillapi/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     "15m",
		RefreshTTL:    "168h",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	access, err := tm.IssueAccessToken(42)
	require.NoError(t, err)
	refresh, err := tm.IssueRefreshToken(42)
	require.NoError(t, err)

	userID, err := tm.Verify(access, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	userID, err = tm.Verify(refresh, PurposeRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenPurposeCrossUseRejected(t *testing.T) {
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	access, err := tm.IssueAccessToken(7)
	require.NoError(t, err)
	refresh, err := tm.IssueRefreshToken(7)
	require.NoError(t, err)

	// A refresh token can never stand in for an access token, and the
	// other way around. The secrets differ, so the signature check
	// already fails before the purpose claim is even consulted.
	_, err = tm.Verify(refresh, PurposeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.Verify(access, PurposeRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Now()
	clock := issued

	tm, err := NewTokenManager(testAuthConfig(), WithNowTime(func() time.Time { return clock }))
	require.NoError(t, err)

	access, err := tm.IssueAccessToken(1)
	require.NoError(t, err)

	_, err = tm.Verify(access, PurposeAccess)
	require.NoError(t, err)

	clock = issued.Add(16 * time.Minute)
	_, err = tm.Verify(access, PurposeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	other, err := NewTokenManager(config.AuthConfig{
		AccessSecret:  "a-completely-different-secret",
		RefreshSecret: "another-different-secret",
		AccessTTL:     "15m",
		RefreshTTL:    "168h",
	})
	require.NoError(t, err)

	access, err := other.IssueAccessToken(9)
	require.NoError(t, err)

	_, err = tm.Verify(access, PurposeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformedRejected(t *testing.T) {
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(token, PurposeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestTokenManagerConfigValidation(t *testing.T) {
	cfg := testAuthConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err := NewTokenManager(cfg)
	assert.ErrorIs(t, err, ErrMisconfigured)

	cfg = testAuthConfig()
	cfg.AccessSecret = ""
	_, err = NewTokenManager(cfg)
	assert.ErrorIs(t, err, ErrMisconfigured)

	cfg = testAuthConfig()
	cfg.AccessTTL = "soon"
	_, err = NewTokenManager(cfg)
	assert.ErrorIs(t, err, ErrMisconfigured)
}
