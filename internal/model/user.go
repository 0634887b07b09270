package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	X         string `json:"x,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	FirstName    string      `json:"firstName,omitempty"`
	LastName     string      `json:"lastName,omitempty"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PublicUser is the shape returned to clients. The password hash never
// leaves the service layer.
type PublicUser struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		SocialLinks: u.SocialLinks,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=20"`
	Email     *string `json:"email" binding:"omitempty,email,max=50"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=128"`
	FirstName *string `json:"firstName" binding:"omitempty,max=20"`
	LastName  *string `json:"lastName" binding:"omitempty,max=20"`
	Website   *string `json:"website" binding:"omitempty,url,max=100"`
	Facebook  *string `json:"facebook" binding:"omitempty,url,max=100"`
	Instagram *string `json:"instagram" binding:"omitempty,url,max=100"`
	LinkedIn  *string `json:"linkedin" binding:"omitempty,url,max=100"`
	X         *string `json:"x" binding:"omitempty,url,max=100"`
	YouTube   *string `json:"youtube" binding:"omitempty,url,max=100"`
}

type UserListResponse struct {
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
	Total  int64        `json:"total"`
	Users  []PublicUser `json:"users"`
}
