package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/leads-generator/collector/internal/auth"
)

var (
	// ErrLoginDisabled is returned when no admin credentials are configured.
	ErrLoginDisabled = errors.New("login is not configured")
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService checks the configured operator credentials and issues tokens.
type AuthService struct {
	adminEmail   string
	passwordHash []byte
	jwt          *auth.JWTManager
}

// NewAuthService constructs a new AuthService. An empty email or hash disables login.
func NewAuthService(adminEmail, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: []byte(strings.TrimSpace(passwordHash)),
		jwt:          jwtManager,
	}
}

// Enabled reports whether credentials were configured.
func (s *AuthService) Enabled() bool {
	return s.adminEmail != "" && len(s.passwordHash) > 0
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwt.TTL()
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrLoginDisabled
	}
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}

	// bcrypt runs for unknown emails too.
	pwErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if strings.ToLower(strings.TrimSpace(email)) != s.adminEmail || pwErr != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(s.adminEmail, auth.RoleAdmin)
}
