package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoronin/daynotes/internal/models"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Users: []models.User{
			{ID: 1, Username: "alice", PasswordHash: "$2a$10$abc", Token: "tok-1"},
			{ID: 2, Username: "bob", PasswordHash: "$2a$10$def", Token: ""},
		},
		Notes: []models.Note{
			{ID: 1, OwnerID: 1, Date: "2024-03-10", Content: "hello"},
			{ID: 2, OwnerID: 2, Date: "2024-03-10", Content: ""},
			{ID: 3, OwnerID: 1, Date: "2024-03-11", Content: "world"},
		},
		NamedNotes: []models.NamedNote{
			{ID: 1, OwnerID: 1, Name: "todo", Content: "ship it"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	original := testSnapshot()

	blob, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeDeterministic(t *testing.T) {
	snap := testSnapshot()

	first, err := Encode(snap)
	require.NoError(t, err)
	second, err := Encode(snap)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeLegacyExportWithoutNamedNotes(t *testing.T) {
	// The shape of exports produced before named notes existed.
	blob := []byte(`{
  "users": [
    {"id": 1, "username": "alice", "password_hash": "h", "token": "t"}
  ],
  "notes": [
    {"id": 1, "user_id": 1, "note_date": "2024-03-10", "content": "hello"}
  ]
}`)

	snap, err := Decode(blob)
	require.NoError(t, err)
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Notes, 1)
	assert.Empty(t, snap.NamedNotes)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ``},
		{"truncated", `{"users": [{"id": 1, "userna`},
		{"not an object", `[1, 2, 3]`},
		{"wrong type", `{"users": [{"id": "one", "username": "alice", "password_hash": "h", "token": ""}], "notes": []}`},
		{"unknown field", `{"users": [], "notes": [], "surprise": true}`},
		{"trailing data", `{"users": [], "notes": []} {"users": []}`},
		{"missing users", `{"notes": []}`},
		{"missing notes", `{"users": []}`},
		{"empty username", `{"users": [{"id": 1, "username": "", "password_hash": "h", "token": ""}], "notes": []}`},
		{"duplicate user id", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}, {"id": 1, "username": "b", "password_hash": "h", "token": ""}], "notes": []}`},
		{"duplicate username", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}, {"id": 2, "username": "a", "password_hash": "h", "token": ""}], "notes": []}`},
		{"unparseable date", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}], "notes": [{"id": 1, "user_id": 1, "note_date": "March 10", "content": ""}]}`},
		{"non-canonical date", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}], "notes": [{"id": 1, "user_id": 1, "note_date": "2024-3-1", "content": ""}]}`},
		{"dangling note owner", `{"users": [], "notes": [{"id": 1, "user_id": 9, "note_date": "2024-03-10", "content": ""}]}`},
		{"two notes same owner and date", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}], "notes": [{"id": 1, "user_id": 1, "note_date": "2024-03-10", "content": "x"}, {"id": 2, "user_id": 1, "note_date": "2024-03-10", "content": "y"}]}`},
		{"dangling named note owner", `{"users": [], "notes": [], "named_notes": [{"id": 1, "user_id": 9, "name": "todo", "content": ""}]}`},
		{"empty named note name", `{"users": [{"id": 1, "username": "a", "password_hash": "h", "token": ""}], "notes": [], "named_notes": [{"id": 1, "user_id": 1, "name": "", "content": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.blob))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeEmptyDataset(t *testing.T) {
	snap, err := Decode([]byte(`{"users": [], "notes": []}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Notes)
}
