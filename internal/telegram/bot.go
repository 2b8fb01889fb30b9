package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ovoronin/daynotes/internal/backup"
	"github.com/ovoronin/daynotes/internal/storage"
)

const helpText = `Available commands:
/start - Start the bot
/help - Show help
/export - Export notes
/import - Import notes (send a JSON export file afterwards)`

// API is the slice of the client the bot loop uses; tests inject fakes.
type API interface {
	GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
	DownloadDocument(ctx context.Context, fileID string) ([]byte, error)
}

// Bot is the operator interface: it answers commands and accepts snapshot
// uploads from an allow-listed set of chats. Messages from any other chat
// are dropped without reply.
type Bot struct {
	api     API
	store   storage.Store
	allowed map[int64]bool
}

// NewBot creates a bot restricted to the given chat IDs.
func NewBot(api API, store storage.Store, allowedChats []int64) *Bot {
	allowed := make(map[int64]bool, len(allowedChats))
	for _, id := range allowedChats {
		allowed[id] = true
	}
	return &Bot{api: api, store: store, allowed: allowed}
}

// Run long-polls for updates until ctx is cancelled. Poll errors are logged
// and retried after a short pause; the loop itself never terminates the
// process.
func (b *Bot) Run(ctx context.Context) {
	slog.Info("Bot started", "allowed_chats", len(b.allowed))

	var offset int64
	for {
		if ctx.Err() != nil {
			slog.Info("Bot stopped")
			return
		}

		updates, err := b.api.GetUpdates(ctx, offset, 30)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("Bot stopped")
				return
			}
			slog.Error("getUpdates failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	if u.Message == nil {
		return
	}
	chatID := u.Message.Chat.ID
	if !b.allowed[chatID] {
		slog.Warn("Dropping message from unlisted chat", "chat_id", chatID)
		return
	}

	if u.Message.Document != nil {
		b.handleImportFile(ctx, chatID, u.Message.Document)
		return
	}

	switch command(u.Message.Text) {
	case "/start":
		b.reply(ctx, chatID, "Welcome! Use /help.")
	case "/help":
		b.reply(ctx, chatID, helpText)
	case "/export":
		b.handleExport(ctx, chatID)
	case "/import":
		b.reply(ctx, chatID, "Send your JSON notes file.")
	}
}

// handleExport dumps the dataset and sends it to the requesting chat.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	blob, filename, err := backup.Export(ctx, b.store)
	if err != nil {
		slog.Error("Export failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Export failed.")
		return
	}

	if err := b.api.SendDocument(ctx, chatID, filename, blob); err != nil {
		slog.Error("Export delivery failed", "chat_id", chatID, "error", err)
		return
	}
	slog.Info("Export delivered", "chat_id", chatID, "filename", filename, "bytes", len(blob))
}

// handleImportFile downloads the uploaded blob and performs the destructive
// replace. The previous dataset is discarded without backup; the confirmation
// message says so explicitly.
func (b *Bot) handleImportFile(ctx context.Context, chatID int64, doc *Document) {
	blob, err := b.api.DownloadDocument(ctx, doc.FileID)
	if err != nil {
		slog.Error("Import download failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Could not download the file.")
		return
	}

	if err := backup.Restore(ctx, b.store, blob); err != nil {
		if backup.IsMalformed(err) {
			slog.Warn("Import rejected", "chat_id", chatID, "file", doc.FileName, "error", err)
			b.reply(ctx, chatID, "Import rejected: "+err.Error())
			return
		}
		slog.Error("Import failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Import failed; the previous data is unchanged.")
		return
	}

	b.reply(ctx, chatID, "Database REPLACED successfully (wipe & import). The previous data was discarded.")
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.api.SendMessage(ctx, chatID, text); err != nil {
		slog.Error("Reply failed", "chat_id", chatID, "error", err)
	}
}

// command extracts the leading slash-command from a message, dropping any
// @botname suffix and arguments.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, "@"); i >= 0 {
		text = text[:i]
	}
	return text
}
