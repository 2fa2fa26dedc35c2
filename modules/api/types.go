package api

import (
	"time"

	domain "github.com/vinayytyagi/lineup/domain/task"
)

// SignupRequest represents an account creation request.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest represents an admin panel login request.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// SessionResponse represents the account behind a fresh session.
type SessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileResponse represents a user profile response.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	ScheduledDate  string `json:"scheduledDate"`
	VideoURL       string `json:"videoUrl"`
	Notes          string `json:"notes"`
	TimeToComplete int    `json:"timeToComplete"`
}

// UpdateTaskRequest represents a task content update request.
type UpdateTaskRequest struct {
	ScheduledDate  string `json:"scheduledDate"`
	VideoURL       string `json:"videoUrl"`
	Notes          string `json:"notes"`
	TimeToComplete int    `json:"timeToComplete"`
	Order          *int   `json:"order,omitempty"`
}

// ReorderRequest represents a bulk reorder request.
type ReorderRequest struct {
	Updates []ReorderEntry `json:"updates"`
}

// ReorderEntry assigns one task a new date and order.
type ReorderEntry struct {
	ID            string `json:"id"`
	ScheduledDate string `json:"scheduledDate"`
	Order         int    `json:"order"`
}

// ReorderResponse reports the outcome of a bulk reorder.
type ReorderResponse struct {
	OK            bool `json:"ok"`
	ModifiedCount int  `json:"modifiedCount"`
}

// TaskListResponse carries tasks in canonical order.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// TaskCountResponse carries an owner's total task count.
type TaskCountResponse struct {
	Count int64 `json:"count"`
}

// MetadataResponse carries resolved video metadata.
type MetadataResponse struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
}

// OKResponse acknowledges an operation with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
