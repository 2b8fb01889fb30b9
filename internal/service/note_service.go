package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ovoronin/daynotes/internal/models"
	"github.com/ovoronin/daynotes/internal/storage"
)

var (
	// ErrBadDate marks a date that is not a well-formed YYYY-MM-DD value.
	// Rejected before touching storage.
	ErrBadDate = errors.New("date must be a valid YYYY-MM-DD value")

	// ErrBadName marks an empty or blank named-note name.
	ErrBadName = errors.New("name required")
)

// NoteService implements the note operations for authenticated owners.
// All methods key strictly by the caller-supplied date; there is no implicit
// "today" anywhere in this layer.
type NoteService struct {
	store storage.Store
}

// NewNoteService creates a new NoteService with the given storage backend.
func NewNoteService(store storage.Store) *NoteService {
	return &NoteService{store: store}
}

// Create inserts a note for (owner, date). Returns storage.ErrConflict if
// the date is occupied.
func (s *NoteService) Create(ctx context.Context, ownerID int64, date, content string) error {
	if err := models.ValidateDate(date); err != nil {
		return ErrBadDate
	}

	if err := s.store.CreateNote(ctx, ownerID, date, content); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			slog.Error("CreateNote failed", "user_id", ownerID, "date", date, "error", err)
		}
		return err
	}

	slog.Info("Note created", "user_id", ownerID, "date", date)
	return nil
}

// Update overwrites the content of the existing note for (owner, date).
func (s *NoteService) Update(ctx context.Context, ownerID int64, date, content string) error {
	if err := models.ValidateDate(date); err != nil {
		return ErrBadDate
	}

	if err := s.store.UpdateNote(ctx, ownerID, date, content); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("UpdateNote failed", "user_id", ownerID, "date", date, "error", err)
		}
		return err
	}

	slog.Info("Note updated", "user_id", ownerID, "date", date)
	return nil
}

// Get retrieves the note for (owner, date).
func (s *NoteService) Get(ctx context.Context, ownerID int64, date string) (*models.Note, error) {
	if err := models.ValidateDate(date); err != nil {
		return nil, ErrBadDate
	}
	return s.store.GetNote(ctx, ownerID, date)
}

// Delete removes the note for (owner, date).
func (s *NoteService) Delete(ctx context.Context, ownerID int64, date string) error {
	if err := models.ValidateDate(date); err != nil {
		return ErrBadDate
	}

	if err := s.store.DeleteNote(ctx, ownerID, date); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("DeleteNote failed", "user_id", ownerID, "date", date, "error", err)
		}
		return err
	}

	slog.Info("Note deleted", "user_id", ownerID, "date", date)
	return nil
}

// ListDates returns the owner's note dates, deduplicated and ascending.
func (s *NoteService) ListDates(ctx context.Context, ownerID int64) ([]string, error) {
	return s.store.ListNoteDates(ctx, ownerID)
}

// CreateNamed inserts a named note. Returns storage.ErrConflict if the name
// is occupied.
func (s *NoteService) CreateNamed(ctx context.Context, ownerID int64, name, content string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBadName
	}

	if err := s.store.CreateNamedNote(ctx, ownerID, name, content); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			slog.Error("CreateNamedNote failed", "user_id", ownerID, "name", name, "error", err)
		}
		return err
	}

	slog.Info("Named note created", "user_id", ownerID, "name", name)
	return nil
}

// GetNamed retrieves the owner's named note.
func (s *NoteService) GetNamed(ctx context.Context, ownerID int64, name string) (*models.NamedNote, error) {
	return s.store.GetNamedNote(ctx, ownerID, name)
}

// UpdateNamed overwrites the content of an existing named note.
func (s *NoteService) UpdateNamed(ctx context.Context, ownerID int64, name, content string) error {
	if err := s.store.UpdateNamedNote(ctx, ownerID, name, content); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("UpdateNamedNote failed", "user_id", ownerID, "name", name, "error", err)
		}
		return err
	}

	slog.Info("Named note updated", "user_id", ownerID, "name", name)
	return nil
}

// DeleteNamed removes the owner's named note.
func (s *NoteService) DeleteNamed(ctx context.Context, ownerID int64, name string) error {
	if err := s.store.DeleteNamedNote(ctx, ownerID, name); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("DeleteNamedNote failed", "user_id", ownerID, "name", name, "error", err)
		}
		return err
	}

	slog.Info("Named note deleted", "user_id", ownerID, "name", name)
	return nil
}

// ListNamed returns the owner's named-note names, ascending.
func (s *NoteService) ListNamed(ctx context.Context, ownerID int64) ([]string, error) {
	return s.store.ListNamedNoteNames(ctx, ownerID)
}
