package model

import "time"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=50"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User        PublicUser `json:"user"`
	AccessToken string     `json:"accessToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthUser is the identity the authentication gate attaches to the
// request context.
type AuthUser struct {
	ID int64
}

// RefreshSession is the persisted record backing a refresh token. The
// token itself is stored hashed; presence of an unrevoked row is the
// revocation authority, independent of the token's signature.
type RefreshSession struct {
	ID        int64
	UserID    int64
	TokenHash string
	RevokedAt *time.Time
	CreatedAt time.Time
}
