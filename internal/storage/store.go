// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/ovoronin/daynotes/internal/models"
)

var (
	// ErrNotFound is returned when an operation targets a record that does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert would violate a uniqueness
	// constraint (duplicate username, duplicate note date, duplicate name).
	ErrConflict = errors.New("record already exists")
)

// Store defines the interface for the shared data store.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser inserts a new user with the given username and password
	// hash and returns the allocated ID. Returns ErrConflict if the
	// username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)

	// GetUserByUsername retrieves a user by login name.
	// Returns ErrNotFound if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByToken retrieves the user whose current session token equals
	// token. Returns ErrNotFound when no user holds the token; callers must
	// never pass an empty token.
	GetUserByToken(ctx context.Context, token string) (*models.User, error)

	// SetUserToken overwrites the user's session token, invalidating any
	// previous one.
	SetUserToken(ctx context.Context, userID int64, token string) error

	// CreateNote inserts a new note iff none exists for (ownerID, date).
	// The existence check and insert are atomic with respect to concurrent
	// callers; the loser of a race gets ErrConflict.
	CreateNote(ctx context.Context, ownerID int64, date, content string) error

	// GetNote retrieves the note for (ownerID, date).
	GetNote(ctx context.Context, ownerID int64, date string) (*models.Note, error)

	// UpdateNote replaces the content of the existing note for
	// (ownerID, date). Returns ErrNotFound if none exists.
	UpdateNote(ctx context.Context, ownerID int64, date, content string) error

	// DeleteNote removes the note for (ownerID, date).
	// Returns ErrNotFound if none exists.
	DeleteNote(ctx context.Context, ownerID int64, date string) error

	// ListNoteDates returns the distinct dates for which the owner has a
	// note, ascending.
	ListNoteDates(ctx context.Context, ownerID int64) ([]string, error)

	// CreateNamedNote inserts a named note iff the owner has none with that
	// name. Returns ErrConflict on a duplicate name.
	CreateNamedNote(ctx context.Context, ownerID int64, name, content string) error

	// GetNamedNote retrieves the owner's named note.
	GetNamedNote(ctx context.Context, ownerID int64, name string) (*models.NamedNote, error)

	// UpdateNamedNote replaces the content of an existing named note.
	UpdateNamedNote(ctx context.Context, ownerID int64, name, content string) error

	// DeleteNamedNote removes the owner's named note.
	DeleteNamedNote(ctx context.Context, ownerID int64, name string) error

	// ListNamedNoteNames returns the owner's note names, ascending.
	ListNamedNoteNames(ctx context.Context, ownerID int64) ([]string, error)

	// Dump reads the entire dataset in one consistent view.
	Dump(ctx context.Context) (*models.Snapshot, error)

	// ReplaceAll discards every user, note, and named note and inserts the
	// snapshot's contents in their place. The replace is all-or-nothing:
	// on any failure the previous dataset is left untouched. Destructive;
	// no implicit backup of the discarded data is taken.
	ReplaceAll(ctx context.Context, snap *models.Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
