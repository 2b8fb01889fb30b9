package auth

import (
	"context"

	"github.com/ovoronin/daynotes/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code, and lets
// tests inject fakes.
type Authenticator interface {
	// Register creates a new user account with the given username and
	// credential. Returns ErrUsernameTaken if the username is occupied.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Login verifies the credentials and returns a fresh session token.
	// Issuing the token invalidates any previous token for the user.
	// Returns ErrInvalidCredentials on a bad username or password without
	// distinguishing which.
	Login(ctx context.Context, username, credential string) (string, error)

	// Authenticate resolves a session token to its user.
	// Returns ErrUnauthorized when the token matches nobody.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}
