package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ovoronin/daynotes/internal/auth"
	"github.com/ovoronin/daynotes/internal/backup"
	"github.com/ovoronin/daynotes/internal/config"
	"github.com/ovoronin/daynotes/internal/httpapi"
	"github.com/ovoronin/daynotes/internal/service"
	"github.com/ovoronin/daynotes/internal/storage/sqlite"
	"github.com/ovoronin/daynotes/internal/telegram"
	"github.com/ovoronin/daynotes/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A .env file is a convenience, not a requirement.
		slog.Debug("No .env file loaded", "error", err)
	}

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store))
	noteSvc := service.NewNoteService(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Bot: operator commands and snapshot uploads.
	client := telegram.NewClient(cfg.BotToken)
	bot := telegram.NewBot(client, store, cfg.ChatIDs)
	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.Run(ctx)
	}()

	// Scheduler: periodic export to every allowed chat.
	scheduler := backup.NewScheduler(store, client, cfg.ChatIDs, cfg.BackupInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	api := httpapi.New(authSvc, noteSvc)

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(api.Handler(), &http2.Server{})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server starting", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		stop()
	}

	wg.Wait()
	slog.Info("Shutdown complete")
}
