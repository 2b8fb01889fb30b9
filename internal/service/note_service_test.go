package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ovoronin/daynotes/internal/storage"
	"github.com/ovoronin/daynotes/internal/storage/sqlite"
)

func newNoteService(t *testing.T) (*NoteService, int64) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ownerID, err := store.CreateUser(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return NewNoteService(store), ownerID
}

func TestMalformedDatesRejectedBeforeStorage(t *testing.T) {
	svc, owner := newNoteService(t)
	ctx := context.Background()

	badDates := []string{
		"",
		"today",
		"2024/03/10",
		"2024-3-10",   // unpadded month
		"2024-03-1",   // unpadded day
		"2024-13-01",  // no 13th month
		"2024-02-30",  // February has no 30th
		"10-03-2024",  // wrong field order
		"2024-03-10T00:00:00Z",
	}

	for _, d := range badDates {
		if err := svc.Create(ctx, owner, d, "x"); !errors.Is(err, ErrBadDate) {
			t.Errorf("Create(%q): expected ErrBadDate, got %v", d, err)
		}
		if err := svc.Update(ctx, owner, d, "x"); !errors.Is(err, ErrBadDate) {
			t.Errorf("Update(%q): expected ErrBadDate, got %v", d, err)
		}
		if _, err := svc.Get(ctx, owner, d); !errors.Is(err, ErrBadDate) {
			t.Errorf("Get(%q): expected ErrBadDate, got %v", d, err)
		}
		if err := svc.Delete(ctx, owner, d); !errors.Is(err, ErrBadDate) {
			t.Errorf("Delete(%q): expected ErrBadDate, got %v", d, err)
		}
	}

	// Nothing reached storage
	dates, err := svc.ListDates(ctx, owner)
	if err != nil {
		t.Fatalf("ListDates failed: %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("Expected empty store, got dates %v", dates)
	}
}

func TestNoteLifecycle(t *testing.T) {
	svc, owner := newNoteService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, owner, "2024-03-10", "hello"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Update keys strictly by the caller-supplied date, so updating a
	// different date must not touch the existing note.
	if err := svc.Update(ctx, owner, "2024-03-11", "other"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update of absent date: expected ErrNotFound, got %v", err)
	}
	note, err := svc.Get(ctx, owner, "2024-03-10")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note.Content != "hello" {
		t.Errorf("Content: got %q, want %q", note.Content, "hello")
	}

	if err := svc.Update(ctx, owner, "2024-03-10", "rewritten"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	note, _ = svc.Get(ctx, owner, "2024-03-10")
	if note.Content != "rewritten" {
		t.Errorf("Content: got %q, want %q", note.Content, "rewritten")
	}

	if err := svc.Create(ctx, owner, "2024-03-10", "again"); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Second create: expected ErrConflict, got %v", err)
	}

	if err := svc.Delete(ctx, owner, "2024-03-10"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, owner, "2024-03-10"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}
}

func TestEmptyContentAllowed(t *testing.T) {
	svc, owner := newNoteService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, owner, "2024-03-10", ""); err != nil {
		t.Fatalf("Create with empty content failed: %v", err)
	}
	note, err := svc.Get(ctx, owner, "2024-03-10")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note.Content != "" {
		t.Errorf("Content: got %q, want empty", note.Content)
	}
}

func TestNamedNoteValidation(t *testing.T) {
	svc, owner := newNoteService(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t"} {
		if err := svc.CreateNamed(ctx, owner, name, "x"); !errors.Is(err, ErrBadName) {
			t.Errorf("CreateNamed(%q): expected ErrBadName, got %v", name, err)
		}
	}

	if err := svc.CreateNamed(ctx, owner, "todo", "ship it"); err != nil {
		t.Fatalf("CreateNamed failed: %v", err)
	}
	if err := svc.CreateNamed(ctx, owner, "todo", "again"); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Duplicate name: expected ErrConflict, got %v", err)
	}
}
