package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/vinayytyagi/lineup/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides account and session services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule() *AuthModule {
	dbPath := os.Getenv("LINEUP_DB_PATH")
	if dbPath == "" {
		dbPath = "lineup.db"
	}
	return &AuthModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	tokens := NewTokenManager(loadSessionConfig())

	m.service = NewAuthService(repo, hasher, tokens, os.Getenv("LINEUP_ADMIN_PASSWORD"))

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"signup", func() error {
			return helper.RegisterTypedRequestReplyService(container, "signup", json.Unmarshal, json.Marshal, m.handleSignup)
		}},
		{"login", func() error {
			return helper.RegisterTypedRequestReplyService(container, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		}},
		{"admin-login", func() error {
			return helper.RegisterTypedRequestReplyService(container, "admin-login", json.Unmarshal, json.Marshal, m.handleAdminLogin)
		}},
		{"validate-token", func() error {
			return helper.RegisterTypedRequestReplyService(container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		}},
		{"validate-admin-token", func() error {
			return helper.RegisterTypedRequestReplyService(container, "validate-admin-token", json.Unmarshal, json.Marshal, m.handleValidateAdminToken)
		}},
		{"get-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		}},
		{"list-users", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-users", json.Unmarshal, json.Marshal, m.handleListUsers)
		}},
		{"update-profile", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-profile", json.Unmarshal, json.Marshal, m.handleUpdateProfile)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[auth] Registered services: signup, login, admin-login, validate-token, validate-admin-token, get-user, list-users, update-profile")
	return nil
}

// handleSignup handles account creation.
func (m *AuthModule) handleSignup(ctx context.Context, req SignupRequest, _ *mono.Msg) (SignupResponse, error) {
	user, token, err := m.service.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return SignupResponse{}, err
	}

	return SignupResponse{
		ID:        user.ID,
		Email:     user.Email,
		Token:     token,
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		ID:    user.ID,
		Email: user.Email,
		Token: token,
	}, nil
}

// handleAdminLogin handles admin panel login.
func (m *AuthModule) handleAdminLogin(ctx context.Context, req AdminLoginRequest, _ *mono.Msg) (AdminLoginResponse, error) {
	token, err := m.service.AdminLogin(ctx, req.Password)
	if err != nil {
		return AdminLoginResponse{}, err
	}
	return AdminLoginResponse{Token: token}, nil
}

// handleValidateToken handles user session validation.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateSession(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for validation failures
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// handleValidateAdminToken handles admin session validation.
func (m *AuthModule) handleValidateAdminToken(ctx context.Context, req ValidateAdminTokenRequest, _ *mono.Msg) (ValidateAdminTokenResponse, error) {
	if err := m.service.ValidateAdminSession(ctx, req.Token); err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ValidateAdminTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}
	return ValidateAdminTokenResponse{Valid: true}, nil
}

// handleGetUser handles get user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: toUserRecord(user)}, nil
}

// handleListUsers handles admin user listing requests.
func (m *AuthModule) handleListUsers(ctx context.Context, _ ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx)
	if err != nil {
		return ListUsersResponse{}, err
	}

	records := make([]UserRecord, len(users))
	for i := range users {
		records[i] = toUserRecord(&users[i])
	}
	return ListUsersResponse{Users: records}, nil
}

// handleUpdateProfile handles profile update requests.
func (m *AuthModule) handleUpdateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (UpdateProfileResponse, error) {
	user, err := m.service.UpdateProfile(ctx, req.UserID, req.Name, req.AvatarURL)
	if err != nil {
		return UpdateProfileResponse{}, err
	}
	return UpdateProfileResponse{User: toUserRecord(user)}, nil
}

func toUserRecord(u *domain.User) UserRecord {
	return UserRecord{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// loadSessionConfig loads session signing configuration from the environment.
func loadSessionConfig() SessionConfig {
	config := DefaultSessionConfig()

	if secret := os.Getenv("LINEUP_JWT_SECRET"); secret != "" {
		config.SecretKey = secret
	}

	return config
}
