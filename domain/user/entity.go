// Package user holds the account entity and session claims shared between
// the auth module and the HTTP surface.
package user

import (
	"time"
)

const (
	// RoleUser is the default role for signed-up accounts.
	RoleUser = "user"
)

// User represents an account in the system.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	Name         string `gorm:"type:text"`
	AvatarURL    string `gorm:"type:text"`
	Role         string `gorm:"not null;default:user;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims represents a validated user session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Profile is the public view of an account.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfile converts a user entity to its public view.
func PublicProfile(u *User) Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
