package auth

import (
	"time"
)

// SignupRequest represents an account creation request.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse represents an account creation response.
type SignupResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a user login response.
type LoginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// AdminLoginRequest represents an admin panel login request.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLoginResponse represents an admin panel login response.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// ValidateTokenRequest represents a session validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a session validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateAdminTokenRequest represents an admin session validation request.
type ValidateAdminTokenRequest struct {
	Token string `json:"token"`
}

// ValidateAdminTokenResponse represents an admin session validation response.
type ValidateAdminTokenResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserRecord is the wire form of an account shared by several responses.
type UserRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User UserRecord `json:"user"`
}

// ListUsersRequest represents an admin user listing request.
type ListUsersRequest struct{}

// ListUsersResponse represents an admin user listing response.
type ListUsersResponse struct {
	Users []UserRecord `json:"users"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// UpdateProfileResponse represents a profile update response.
type UpdateProfileResponse struct {
	User UserRecord `json:"user"`
}
