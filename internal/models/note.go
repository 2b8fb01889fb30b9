package models

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date form used everywhere notes carry a date.
const DateLayout = "2006-01-02"

// Note is a daily note. At most one exists per (OwnerID, Date) pair.
type Note struct {
	// ID is allocated by the store on insert.
	ID int64 `json:"id"`

	// OwnerID references the User the note belongs to.
	OwnerID int64 `json:"user_id"`

	// Date is the calendar date in DateLayout form.
	Date string `json:"note_date"`

	// Content is arbitrary text, possibly empty.
	Content string `json:"content"`
}

// NamedNote is a note keyed by a per-user unique name instead of a date.
type NamedNote struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"user_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Snapshot is the complete point-in-time dataset, used only as a transfer
// object for backup and restore.
type Snapshot struct {
	Users []User `json:"users"`
	Notes []Note `json:"notes"`

	// NamedNotes is absent from exports produced before named notes existed;
	// decoding treats a missing field as empty.
	NamedNotes []NamedNote `json:"named_notes,omitempty"`
}

// ValidateDate checks that s is a well-formed calendar date in DateLayout
// form. Inputs like "2024-2-3" or "2024-13-01" are rejected.
func ValidateDate(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	// time.Parse accepts some non-canonical forms; require exact round trip.
	if t.Format(DateLayout) != s {
		return fmt.Errorf("invalid date %q: not in YYYY-MM-DD form", s)
	}
	return nil
}
