// Package service implements the operations exposed at the service boundary,
// sitting between the transport layer and the stores.
package service

import (
	"context"
	"log/slog"

	"github.com/ovoronin/daynotes/internal/auth"
	"github.com/ovoronin/daynotes/internal/models"
)

// AuthService implements registration, login, and token resolution.
type AuthService struct {
	authenticator auth.Authenticator
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator) *AuthService {
	return &AuthService{authenticator: authenticator}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Register(ctx, username, password)
	if err != nil {
		slog.Warn("Registration failed", "username", username, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and returns a fresh session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", auth.ErrInvalidCredentials
	}

	token, err := s.authenticator.Login(ctx, username, password)
	if err != nil {
		slog.Warn("Login failed", "username", username, "error", err)
		return "", err
	}

	slog.Info("User logged in", "username", username)
	return token, nil
}

// Whoami resolves a bearer token to the current user.
func (s *AuthService) Whoami(ctx context.Context, token string) (*models.User, error) {
	return s.authenticator.Authenticate(ctx, token)
}
