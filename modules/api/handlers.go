package api

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"

	domain "github.com/vinayytyagi/lineup/domain/user"
	"github.com/vinayytyagi/lineup/modules/auth"
	"github.com/vinayytyagi/lineup/modules/metadata"
	taskmod "github.com/vinayytyagi/lineup/modules/task"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskAdapter   taskmod.TaskPort
	metaAdapter   metadata.MetadataPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, authAdapter auth.AuthPort, taskAdapter taskmod.TaskPort, metaAdapter metadata.MetadataPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		authAdapter:   authAdapter,
		taskAdapter:   taskAdapter,
		metaAdapter:   metaAdapter,
	}
}

// Signup handles account creation. A fresh session cookie is set so the new
// account is logged in immediately.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.SignupRequest{Email: req.Email, Password: req.Password}
	var resp auth.SignupResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"signup",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	setSessionCookie(c, UserCookieName, resp.Token, userCookieMaxAge)
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		ID:    resp.ID,
		Email: resp.Email,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	setSessionCookie(c, UserCookieName, resp.Token, userCookieMaxAge)
	return c.Status(fiber.StatusOK).JSON(SessionResponse{
		ID:    resp.ID,
		Email: resp.Email,
	})
}

// Logout clears the user session cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c, UserCookieName)
	return c.JSON(OKResponse{OK: true})
}

// Me returns the current user's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return internalError(c, "Failed to retrieve user profile", err)
	}

	return c.JSON(profileResponse(user))
}

// UpdateProfile handles profile display updates (name, avatar).
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	authReq := auth.UpdateProfileRequest{
		UserID:    claims.UserID,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	var resp auth.UpdateProfileResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"update-profile",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return internalError(c, "Failed to update profile", err)
	}

	return c.JSON(ProfileResponse{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		AvatarURL: resp.User.AvatarURL,
		Role:      resp.User.Role,
		CreatedAt: resp.User.CreatedAt,
	})
}

// VideoMetadata resolves metadata for a video URL. Available to guests so the
// local-only experience matches the logged-in one.
func (h *Handlers) VideoMetadata(c *fiber.Ctx) error {
	videoURL := c.Query("url")
	if videoURL == "" {
		return badRequest(c, "url query parameter is required")
	}

	meta, err := h.metaAdapter.Fetch(c.UserContext(), videoURL)
	if err != nil {
		if errors.Is(err, metadata.ErrInvalidVideoURL) {
			return badRequest(c, "Not a recognizable video URL")
		}
		return internalError(c, "Failed to resolve video metadata", err)
	}

	return c.JSON(MetadataResponse{
		VideoID:      meta.VideoID,
		Title:        meta.Title,
		ThumbnailURL: meta.ThumbnailURL,
		Duration:     meta.Duration,
	})
}

func profileResponse(user *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// handleAuthError maps auth service errors to HTTP responses. Sentinels cross
// the service container as messages, so matching is by substring.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, auth.ErrInvalidCredentials.Error()):
		return unauthorized(c, "Invalid email or password")
	case strings.Contains(errStr, auth.ErrUserExists.Error()):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "An account with this email already exists",
		})
	case strings.Contains(errStr, auth.ErrInvalidEmail.Error()):
		return badRequest(c, "Invalid email address")
	case strings.Contains(errStr, auth.ErrWeakPassword.Error()):
		return badRequest(c, "Password must be at least 6 characters")
	case strings.Contains(errStr, auth.ErrPasswordTooLong.Error()):
		return badRequest(c, "Password must be at most 200 characters")
	case strings.Contains(errStr, auth.ErrAdminDisabled.Error()):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Admin access is not configured",
		})
	default:
		return internalError(c, "An internal error occurred", err)
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

func internalError(c *fiber.Ctx, message string, err error) error {
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: message,
	})
}
