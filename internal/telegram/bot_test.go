package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoronin/daynotes/internal/snapshot"
	"github.com/ovoronin/daynotes/internal/storage/sqlite"
)

// fakeAPI scripts inbound updates and records everything the bot sends.
type fakeAPI struct {
	updates   []Update
	files     map[string][]byte
	messages  map[int64][]string
	documents map[int64][][]byte
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		files:     make(map[string][]byte),
		messages:  make(map[int64][]string),
		documents: make(map[int64][][]byte),
	}
}

func (f *fakeAPI) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var out []Update
	for _, u := range f.updates {
		if u.UpdateID >= offset {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.messages[chatID] = append(f.messages[chatID], text)
	return nil
}

func (f *fakeAPI) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	f.documents[chatID] = append(f.documents[chatID], data)
	return nil
}

func (f *fakeAPI) DownloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", fileID)
	}
	return data, nil
}

func newBotFixture(t *testing.T) (*Bot, *fakeAPI, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api := newFakeAPI()
	bot := NewBot(api, store, []int64{100})
	return bot, api, store
}

func textUpdate(id, chatID int64, text string) Update {
	return Update{UpdateID: id, Message: &Message{Chat: Chat{ID: chatID}, Text: text}}
}

func TestBotIgnoresUnlistedChats(t *testing.T) {
	bot, api, _ := newBotFixture(t)

	bot.handleUpdate(context.Background(), textUpdate(1, 999, "/export"))

	assert.Empty(t, api.messages[999])
	assert.Empty(t, api.documents[999])
}

func TestBotHelp(t *testing.T) {
	bot, api, _ := newBotFixture(t)

	bot.handleUpdate(context.Background(), textUpdate(1, 100, "/help"))

	require.Len(t, api.messages[100], 1)
	assert.Contains(t, api.messages[100][0], "/export")
	assert.Contains(t, api.messages[100][0], "/import")
}

func TestBotExportSendsSnapshot(t *testing.T) {
	bot, api, store := newBotFixture(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	require.NoError(t, store.CreateNote(ctx, id, "2024-03-10", "hello"))

	bot.handleUpdate(ctx, textUpdate(1, 100, "/export"))

	require.Len(t, api.documents[100], 1)
	snap, err := snapshot.Decode(api.documents[100][0])
	require.NoError(t, err)
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Notes, 1)
}

func TestBotImportReplacesDataset(t *testing.T) {
	bot, api, store := newBotFixture(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, "old-user", "hash")
	require.NoError(t, err)
	require.NoError(t, store.CreateNote(ctx, id, "2024-01-01", "old"))

	api.files["file-1"] = []byte(`{
  "users": [{"id": 5, "username": "restored", "password_hash": "h", "token": ""}],
  "notes": [{"id": 1, "user_id": 5, "note_date": "2020-06-01", "content": "restored note"}]
}`)

	bot.handleUpdate(ctx, Update{
		UpdateID: 1,
		Message: &Message{
			Chat:     Chat{ID: 100},
			Document: &Document{FileID: "file-1", FileName: "db_export_2020-06-01.json"},
		},
	})

	require.Len(t, api.messages[100], 1)
	assert.Contains(t, api.messages[100][0], "REPLACED")

	snap, err := store.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "restored", snap.Users[0].Username)
}

func TestBotImportRejectsMalformedBlob(t *testing.T) {
	bot, api, store := newBotFixture(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, "keeper", "hash")
	require.NoError(t, err)
	require.NoError(t, store.CreateNote(ctx, id, "2024-01-01", "keep me"))

	api.files["bad"] = []byte(`{"users": [{"truncated`)

	bot.handleUpdate(ctx, Update{
		UpdateID: 1,
		Message: &Message{
			Chat:     Chat{ID: 100},
			Document: &Document{FileID: "bad", FileName: "junk.json"},
		},
	})

	require.Len(t, api.messages[100], 1)
	assert.True(t, strings.HasPrefix(api.messages[100][0], "Import rejected"), api.messages[100][0])

	// Prior dataset untouched
	note, err := store.GetNote(ctx, id, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "keep me", note.Content)
}

func TestCommandParsing(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/export", "/export"},
		{"/export@daynotes_bot", "/export"},
		{"/import now please", "/import"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, command(tt.text), "text %q", tt.text)
	}
}
