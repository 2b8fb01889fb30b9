package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovoronin/daynotes/internal/models"
	"github.com/ovoronin/daynotes/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrUnauthorized       = errors.New("missing or invalid session token")
)

// PasswordAuthenticator implements password-based authentication using bcrypt
// and store-backed opaque session tokens.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, credential string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := a.store.CreateUser(ctx, username, string(hashed))
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hashed),
	}, nil
}

// Login verifies the password and rotates the user's session token.
// The stored token is overwritten, so at most one session per user is ever
// valid.
func (a *PasswordAuthenticator) Login(ctx context.Context, username, credential string) (string, error) {
	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		// Unknown username and bad password look identical to the caller.
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := NewSessionToken()
	if err := a.store.SetUserToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Authenticate resolves a session token to its user.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	user, err := a.store.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return user, nil
}
