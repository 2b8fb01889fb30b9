// Package backup implements the export/import protocol: a recurring job that
// delivers the full dataset as a JSON blob to configured destinations, and
// the destructive restore that replaces the dataset from an uploaded blob.
package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ovoronin/daynotes/internal/metrics"
	"github.com/ovoronin/daynotes/internal/snapshot"
	"github.com/ovoronin/daynotes/internal/storage"
)

// Channel is the delivery capability: it can send a named byte blob to a
// destination. Implemented by the Telegram client; tests inject fakes.
type Channel interface {
	Deliver(ctx context.Context, dest int64, filename string, blob []byte) error
}

// ExportFilename returns the name a snapshot delivered on the given day
// carries, e.g. "db_export_2024-03-10.json".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("db_export_%s.json", now.Format("2006-01-02"))
}

// Export dumps the store and encodes it, returning the blob and its filename.
func Export(ctx context.Context, store storage.Store) ([]byte, string, error) {
	snap, err := store.Dump(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to dump store: %w", err)
	}
	blob, err := snapshot.Encode(snap)
	if err != nil {
		return nil, "", err
	}
	return blob, ExportFilename(time.Now()), nil
}

// Restore decodes the uploaded blob and atomically replaces the entire
// dataset with its contents. A snapshot.ErrMalformed blob aborts before any
// mutation; a mid-replace failure rolls back, so the store is never left in
// a mixed old/new state.
//
// This is destructive and irreversible: the previous dataset is discarded
// without an implicit backup.
func Restore(ctx context.Context, store storage.Store, blob []byte) error {
	snap, err := snapshot.Decode(blob)
	if err != nil {
		metrics.Restores.WithLabelValues("malformed").Inc()
		return err
	}

	if err := store.ReplaceAll(ctx, snap); err != nil {
		metrics.Restores.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to replace dataset: %w", err)
	}

	metrics.Restores.WithLabelValues("ok").Inc()
	slog.Info("Dataset replaced from snapshot",
		"users", len(snap.Users),
		"notes", len(snap.Notes),
		"named_notes", len(snap.NamedNotes),
	)
	return nil
}

// IsMalformed reports whether err came from a structurally invalid blob.
func IsMalformed(err error) bool {
	return errors.Is(err, snapshot.ErrMalformed)
}
