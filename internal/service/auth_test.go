package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quillapi/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, username, email, passwordHash, role string) (*model.User, error) {
	f.nextID++
	user := &model.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.RefreshSession
	nextID   int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.RefreshSession)}
}

func (f *fakeSessionRepo) InsertRefreshSession(ctx context.Context, userID int64, tokenHash string) error {
	f.nextID++
	f.sessions[tokenHash] = &model.RefreshSession{
		ID:        f.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeSessionRepo) GetRefreshSessionByHash(ctx context.Context, tokenHash string) (*model.RefreshSession, error) {
	if session, ok := f.sessions[tokenHash]; ok {
		return session, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionRepo) RevokeRefreshSessionByHash(ctx context.Context, tokenHash string) error {
	if session, ok := f.sessions[tokenHash]; ok && session.RevokedAt == nil {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllRefreshSessions(ctx context.Context, userID int64) error {
	now := time.Now()
	for _, session := range f.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) RotateRefreshSession(ctx context.Context, oldSessionID, userID int64, newTokenHash string) error {
	now := time.Now()
	for _, session := range f.sessions {
		if session.ID == oldSessionID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	}
	return f.InsertRefreshSession(ctx, userID, newTokenHash)
}

func (f *fakeSessionRepo) live(userID int64) int {
	count := 0
	for _, session := range f.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			count++
		}
	}
	return count
}

func newTestAuthService(t *testing.T, users *fakeUserRepo, sessions *fakeSessionRepo) *AuthService {
	t.Helper()
	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)
	svc, err := NewAuthService(users, sessions, tm, testAuthConfig(), false)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := users.CreateUser(context.Background(), "alice", email, string(hash), role)
	require.NoError(t, err)
	return user
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), newFakeSessionRepo())

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, newFakeSessionRepo())

	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginOpensIndependentSessions(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	user := seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, sessions)

	_, _, _, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	_, _, _, err = svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	// Two devices, two sessions.
	assert.Equal(t, 2, sessions.live(user.ID))
}

func TestRefreshRotatesToken(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, sessions)

	_, _, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	accessToken, newRefreshToken, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEqual(t, refreshToken, newRefreshToken)

	// The rotated-out token is revoked and cannot be replayed.
	_, _, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// The replacement keeps working.
	_, _, err = svc.Refresh(context.Background(), newRefreshToken)
	require.NoError(t, err)
}

func TestRefreshAfterLogout(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, sessions)

	_, _, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refreshToken))

	_, _, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutIsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, sessions)

	_, _, refreshToken, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refreshToken))
	require.NoError(t, svc.Logout(context.Background(), refreshToken))
	require.NoError(t, svc.Logout(context.Background(), ""))
	require.NoError(t, svc.Logout(context.Background(), "never-issued"))
}

func TestRevokeAllSessions(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	user := seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, sessions)

	_, _, first, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	_, _, second, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllSessions(context.Background(), user.ID))

	_, _, err = svc.Refresh(context.Background(), first)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = svc.Refresh(context.Background(), second)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshUnknownSession(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, newFakeSessionRepo())

	tm, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)
	// Cryptographically valid, but never persisted: store presence is
	// the authority, not signature validity.
	orphan, err := tm.IssueRefreshToken(1)
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegisterDefaultsRoleAndUsername(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc := newTestAuthService(t, users, sessions)

	user, accessToken, refreshToken, err := svc.Register(context.Background(), "bob@example.com", "password123", "")
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, strings.HasPrefix(user.Username, "user-"))
	assert.LessOrEqual(t, len(user.Username), 20)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, 1, sessions.live(user.ID))
}

func TestVerifyAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "alice@example.com", "password123", model.RoleUser)
	svc := newTestAuthService(t, users, newFakeSessionRepo())

	user, accessToken, _, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	authUser, err := svc.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authUser.ID)

	_, err = svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
