package sqlite

import (
	"context"
	"fmt"

	"github.com/ovoronin/daynotes/internal/models"
)

// Dump reads every user, note, and named note inside one transaction so the
// snapshot is a consistent point-in-time view even while writers are active.
func (s *SQLiteStore) Dump(ctx context.Context) (*models.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snap := &models.Snapshot{
		Users:      []models.User{},
		Notes:      []models.Note{},
		NamedNotes: []models.NamedNote{},
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id, username, password_hash, token FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to dump users: %w", err)
	}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Token); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		snap.Users = append(snap.Users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	rows, err = tx.QueryContext(ctx,
		"SELECT id, user_id, note_date, content FROM notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to dump notes: %w", err)
	}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Date, &n.Content); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		snap.Notes = append(snap.Notes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	rows, err = tx.QueryContext(ctx,
		"SELECT id, user_id, name, content FROM named_notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to dump named notes: %w", err)
	}
	for rows.Next() {
		var n models.NamedNote
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Name, &n.Content); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan named note: %w", err)
		}
		snap.NamedNotes = append(snap.NamedNotes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate named notes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dump: %w", err)
	}
	return snap, nil
}

// ReplaceAll wipes the dataset and inserts the snapshot's contents in a
// single transaction. Users are inserted before notes to satisfy the foreign
// keys; IDs are preserved exactly as decoded. Any failure rolls the whole
// replace back, leaving the previous dataset untouched.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, snap *models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first so the foreign keys never dangle mid-transaction.
	for _, table := range []string{"notes", "named_notes", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, username, password_hash, token) VALUES (?, ?, ?, ?)",
			u.ID, u.Username, u.PasswordHash, u.Token,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %d: %w", u.ID, err)
		}
	}

	for _, n := range snap.Notes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO notes (id, user_id, note_date, content) VALUES (?, ?, ?, ?)",
			n.ID, n.OwnerID, n.Date, n.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %d: %w", n.ID, err)
		}
	}

	for _, n := range snap.NamedNotes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO named_notes (id, user_id, name, content) VALUES (?, ?, ?, ?)",
			n.ID, n.OwnerID, n.Name, n.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to insert named note %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}
