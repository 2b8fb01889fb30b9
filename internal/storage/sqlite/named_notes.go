package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ovoronin/daynotes/internal/models"
	"github.com/ovoronin/daynotes/internal/storage"
)

// CreateNamedNote inserts a named note for the owner.
// UNIQUE(user_id, name) makes duplicate names an atomic ErrConflict.
func (s *SQLiteStore) CreateNamedNote(ctx context.Context, ownerID int64, name, content string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO named_notes (user_id, name, content) VALUES (?, ?, ?)",
		ownerID, name, content,
	)
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create named note: %w", err)
	}
	return nil
}

// GetNamedNote retrieves the owner's named note.
func (s *SQLiteStore) GetNamedNote(ctx context.Context, ownerID int64, name string) (*models.NamedNote, error) {
	note := &models.NamedNote{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, content FROM named_notes WHERE user_id = ? AND name = ?",
		ownerID, name,
	).Scan(&note.ID, &note.OwnerID, &note.Name, &note.Content)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get named note: %w", err)
	}
	return note, nil
}

// UpdateNamedNote replaces the content of an existing named note.
func (s *SQLiteStore) UpdateNamedNote(ctx context.Context, ownerID int64, name, content string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE named_notes SET content = ? WHERE user_id = ? AND name = ?",
		content, ownerID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to update named note: %w", err)
	}
	return requireRow(res)
}

// DeleteNamedNote removes the owner's named note.
func (s *SQLiteStore) DeleteNamedNote(ctx context.Context, ownerID int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM named_notes WHERE user_id = ? AND name = ?",
		ownerID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete named note: %w", err)
	}
	return requireRow(res)
}

// ListNamedNoteNames returns the owner's note names, ascending.
func (s *SQLiteStore) ListNamedNoteNames(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM named_notes WHERE user_id = ? ORDER BY name ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list named notes: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan named note: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate named notes: %w", err)
	}
	return names, nil
}
