package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/vinayytyagi/lineup/domain/user"
	"github.com/google/uuid"
)

const (
	maxEmailLength    = 254
	minPasswordLength = 6
	maxPasswordLength = 200
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong is returned when password exceeds the allowed length.
	ErrPasswordTooLong = errors.New("password must be at most 200 characters")
	// ErrAdminDisabled is returned when no admin panel password is configured.
	ErrAdminDisabled = errors.New("admin access is not configured")
)

// AuthService handles account and session business logic.
type AuthService struct {
	repo          *UserRepository
	hasher        *PasswordHasher
	tokens        *TokenManager
	adminPassword string
}

// NewAuthService creates a new AuthService. adminPassword may be empty, in
// which case admin login is disabled.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager, adminPassword string) *AuthService {
	return &AuthService{
		repo:          repo,
		hasher:        hasher,
		tokens:        tokens,
		adminPassword: adminPassword,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new user account and returns it with a session token.
func (s *AuthService) Signup(_ context.Context, email, password string) (*domain.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || len(email) > maxEmailLength {
		return nil, "", ErrInvalidEmail
	}

	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}
	if len(password) > maxPasswordLength {
		return nil, "", ErrPasswordTooLong
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return user, token, nil
}

// AdminLogin validates the shared admin panel password and returns an admin
// session token. The comparison is constant-time.
func (s *AuthService) AdminLogin(_ context.Context, password string) (string, error) {
	if s.adminPassword == "" {
		return "", ErrAdminDisabled
	}
	if !ConstantTimeEquals(password, s.adminPassword) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateAdminToken()
}

// ValidateSession validates a user session token and returns claims.
func (s *AuthService) ValidateSession(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.ValidateSessionToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// ValidateAdminSession validates an admin session token.
func (s *AuthService) ValidateAdminSession(_ context.Context, token string) error {
	_, err := s.tokens.ValidateAdminToken(token)
	return err
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// ListUsers returns all accounts, newest first, capped by the repository.
func (s *AuthService) ListUsers(_ context.Context) ([]domain.User, error) {
	return s.repo.List()
}

// UpdateProfile updates the mutable profile fields of a user.
func (s *AuthService) UpdateProfile(_ context.Context, userID, name, avatarURL string) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(name)
	user.AvatarURL = strings.TrimSpace(avatarURL)
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
