// Package snapshot encodes the full dataset to a transferable JSON blob and
// decodes it back with strict structural validation.
//
// The wire format is indented JSON with a fixed field order, so two exports
// of the same dataset are byte-identical and a pair of exports diffs cleanly.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ovoronin/daynotes/internal/models"
)

// ErrMalformed is returned when a blob fails structural validation. The
// decoded dataset is never partially usable: Decode returns either a fully
// valid snapshot or this error.
var ErrMalformed = errors.New("malformed snapshot")

// Encode serializes the snapshot as indented JSON.
func Encode(snap *models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot blob.
//
// Beyond JSON well-formedness it checks referential and uniqueness
// invariants: usernames present and unique, user IDs unique, note dates
// well-formed, at most one note per (owner, date), named-note names present
// and unique per owner, and every note owner resolvable to a decoded user.
// A blob missing the named_notes field decodes with an empty named-note set;
// exports made before named notes existed stay importable.
func Decode(blob []byte) (*models.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.DisallowUnknownFields()

	snap := &models.Snapshot{}
	if err := dec.Decode(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// Trailing garbage after the object is as suspect as a truncated one.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after snapshot", ErrMalformed)
	}

	if err := validate(snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if snap.NamedNotes == nil {
		snap.NamedNotes = []models.NamedNote{}
	}
	return snap, nil
}

func validate(snap *models.Snapshot) error {
	// users and notes are mandatory; named_notes may be absent in older
	// exports.
	if snap.Users == nil {
		return errors.New("missing users field")
	}
	if snap.Notes == nil {
		return errors.New("missing notes field")
	}

	userIDs := make(map[int64]bool, len(snap.Users))
	usernames := make(map[string]bool, len(snap.Users))
	for i, u := range snap.Users {
		if u.Username == "" {
			return fmt.Errorf("user %d: empty username", i)
		}
		if userIDs[u.ID] {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		if usernames[u.Username] {
			return fmt.Errorf("duplicate username %q", u.Username)
		}
		userIDs[u.ID] = true
		usernames[u.Username] = true
	}

	type ownerDate struct {
		owner int64
		date  string
	}
	noteIDs := make(map[int64]bool, len(snap.Notes))
	seenDates := make(map[ownerDate]bool, len(snap.Notes))
	for i, n := range snap.Notes {
		if !userIDs[n.OwnerID] {
			return fmt.Errorf("note %d: unknown owner %d", i, n.OwnerID)
		}
		if err := models.ValidateDate(n.Date); err != nil {
			return fmt.Errorf("note %d: %v", i, err)
		}
		if noteIDs[n.ID] {
			return fmt.Errorf("duplicate note id %d", n.ID)
		}
		key := ownerDate{n.OwnerID, n.Date}
		if seenDates[key] {
			return fmt.Errorf("note %d: second note for owner %d on %s", i, n.OwnerID, n.Date)
		}
		noteIDs[n.ID] = true
		seenDates[key] = true
	}

	type ownerName struct {
		owner int64
		name  string
	}
	namedIDs := make(map[int64]bool, len(snap.NamedNotes))
	seenNames := make(map[ownerName]bool, len(snap.NamedNotes))
	for i, n := range snap.NamedNotes {
		if !userIDs[n.OwnerID] {
			return fmt.Errorf("named note %d: unknown owner %d", i, n.OwnerID)
		}
		if n.Name == "" {
			return fmt.Errorf("named note %d: empty name", i)
		}
		if namedIDs[n.ID] {
			return fmt.Errorf("duplicate named note id %d", n.ID)
		}
		key := ownerName{n.OwnerID, n.Name}
		if seenNames[key] {
			return fmt.Errorf("named note %d: second note for owner %d named %q", i, n.OwnerID, n.Name)
		}
		namedIDs[n.ID] = true
		seenNames[key] = true
	}

	return nil
}
