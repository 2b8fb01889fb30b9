// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ovoronin/daynotes/internal/backup"
)

// Config holds everything the process needs at startup.
type Config struct {
	// DBPath is the SQLite database file. Required.
	DBPath string

	// Port is the HTTP listen port.
	Port int

	// BotToken authenticates against the Telegram Bot API. Required.
	BotToken string

	// ChatIDs is the allow list of chats the bot talks to and the
	// destination set for scheduled exports. Required, non-empty.
	ChatIDs []int64

	// BackupInterval is the period between scheduled exports.
	BackupInterval time.Duration
}

// Load reads the configuration from environment variables. Missing required
// values are an error; callers treat that as fatal rather than starting with
// a partial configuration.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         os.Getenv("DB_PATH"),
		BotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		Port:           8080,
		BackupInterval: backup.DefaultInterval,
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	chatIDs, err := parseChatIDs(os.Getenv("TELEGRAM_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_IDS is required")
	}
	cfg.ChatIDs = chatIDs

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("BACKUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid BACKUP_INTERVAL %q", v)
		}
		cfg.BackupInterval = d
	}

	return cfg, nil
}

// parseChatIDs splits a comma-separated list of chat IDs. Blank entries are
// skipped; anything non-numeric is an error rather than silently dropped.
func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
