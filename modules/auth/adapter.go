package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/vinayytyagi/lineup/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for session operations used by other modules.
type AuthPort interface {
	ValidateSession(ctx context.Context, token string) (*domain.Claims, error)
	ValidateAdminSession(ctx context.Context, token string) error
	GetUser(ctx context.Context, userID string) (*domain.Profile, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// ValidateSession validates a user session token and returns claims.
func (a *AuthAdapter) ValidateSession(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("session validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// ValidateAdminSession validates an admin session token.
func (a *AuthAdapter) ValidateAdminSession(ctx context.Context, token string) error {
	req := ValidateAdminTokenRequest{Token: token}
	var resp ValidateAdminTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-admin-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("validate-admin-token request failed: %w", err)
	}

	if !resp.Valid {
		return fmt.Errorf("admin session validation failed: %s", resp.Error)
	}
	return nil
}

// GetUser retrieves a user's public profile by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.Profile, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &domain.Profile{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		AvatarURL: resp.User.AvatarURL,
		Role:      resp.User.Role,
		CreatedAt: resp.User.CreatedAt,
	}, nil
}
