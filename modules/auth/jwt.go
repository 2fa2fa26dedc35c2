package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// SessionConfig holds signing configuration for session tokens.
type SessionConfig struct {
	SecretKey            string
	UserSessionDuration  time.Duration
	AdminSessionDuration time.Duration
	Issuer               string
}

// DefaultSessionConfig returns the development configuration. The secret key
// must be overridden via environment in production.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey:            "lineup-dev-secret-change-me",
		UserSessionDuration:  30 * 24 * time.Hour,
		AdminSessionDuration: 7 * 24 * time.Hour,
		Issuer:               "lineup",
	}
}

// SessionClaims are the claims carried by a user session token.
type SessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AdminClaims are the claims carried by an admin panel session token.
type AdminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates session tokens.
type TokenManager struct {
	config SessionConfig
}

// NewTokenManager creates a new TokenManager with the given configuration.
func NewTokenManager(config SessionConfig) *TokenManager {
	return &TokenManager{
		config: config,
	}
}

// GenerateSessionToken creates a user session token.
func (m *TokenManager) GenerateSessionToken(userID, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.UserSessionDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// GenerateAdminToken creates an admin panel session token.
func (m *TokenManager) GenerateAdminToken() (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AdminSessionDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// ValidateSessionToken validates a user session token and returns its claims.
func (m *TokenManager) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, m.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAdminToken validates an admin session token.
func (m *TokenManager) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, m.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || !claims.Admin {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// UserSessionMaxAge returns the user session lifetime in seconds, for cookies.
func (m *TokenManager) UserSessionMaxAge() int {
	return int(m.config.UserSessionDuration.Seconds())
}

// AdminSessionMaxAge returns the admin session lifetime in seconds, for cookies.
func (m *TokenManager) AdminSessionMaxAge() int {
	return int(m.config.AdminSessionDuration.Seconds())
}

func (m *TokenManager) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return []byte(m.config.SecretKey), nil
}
