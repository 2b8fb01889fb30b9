package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ovoronin/daynotes/internal/models"
	"github.com/ovoronin/daynotes/internal/storage"
)

// CreateUser inserts a new user and returns the allocated ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if isUniqueViolation(err) {
		return 0, storage.ErrConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user by login name.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, username, password_hash, token FROM users WHERE username = ?", username)
}

// GetUserByToken retrieves the user holding the given session token.
// At most one user can hold a token at a time; tokens are overwritten on
// every login.
func (s *SQLiteStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		// The token column defaults to "" for users who never logged in;
		// an empty credential must not match them.
		return nil, storage.ErrNotFound
	}
	return s.getUser(ctx, "SELECT id, username, password_hash, token FROM users WHERE token = ?", token)
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Token,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// SetUserToken overwrites the user's session token.
func (s *SQLiteStore) SetUserToken(ctx context.Context, userID int64, token string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET token = ? WHERE id = ?",
		token, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check token update: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
