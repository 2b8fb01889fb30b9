package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ovoronin/daynotes/internal/models"
	"github.com/ovoronin/daynotes/internal/storage"
)

// CreateNote inserts a new note for (ownerID, date).
// The UNIQUE(user_id, note_date) constraint makes the existence check and
// insert a single atomic step: of two concurrent creates for the same
// (owner, date), exactly one succeeds and the other gets ErrConflict.
func (s *SQLiteStore) CreateNote(ctx context.Context, ownerID int64, date, content string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (user_id, note_date, content) VALUES (?, ?, ?)",
		ownerID, date, content,
	)
	if isUniqueViolation(err) {
		return storage.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetNote retrieves the note for (ownerID, date).
func (s *SQLiteStore) GetNote(ctx context.Context, ownerID int64, date string) (*models.Note, error) {
	note := &models.Note{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, note_date, content FROM notes WHERE user_id = ? AND note_date = ?",
		ownerID, date,
	).Scan(&note.ID, &note.OwnerID, &note.Date, &note.Content)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces the content of the note for (ownerID, date).
func (s *SQLiteStore) UpdateNote(ctx context.Context, ownerID int64, date, content string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET content = ? WHERE user_id = ? AND note_date = ?",
		content, ownerID, date,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireRow(res)
}

// DeleteNote removes the note for (ownerID, date).
func (s *SQLiteStore) DeleteNote(ctx context.Context, ownerID int64, date string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM notes WHERE user_id = ? AND note_date = ?",
		ownerID, date,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRow(res)
}

// ListNoteDates returns the distinct dates the owner has notes for, ascending.
func (s *SQLiteStore) ListNoteDates(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT note_date FROM notes WHERE user_id = ? ORDER BY note_date ASC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list note dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan note date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note dates: %w", err)
	}
	return dates, nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
