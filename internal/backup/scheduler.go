package backup

import (
	"context"
	"log/slog"
	"time"

	"github.com/ovoronin/daynotes/internal/metrics"
	"github.com/ovoronin/daynotes/internal/storage"
)

const (
	// DefaultInterval is how often the scheduler exports when not
	// configured otherwise.
	DefaultInterval = 24 * time.Hour

	// DefaultDeliveryTimeout bounds a single delivery attempt so one slow
	// destination cannot stall the cycle.
	DefaultDeliveryTimeout = time.Minute
)

// Scheduler periodically exports the dataset and delivers it to every
// configured destination. It is the one component that never terminates the
// process on error: every per-cycle failure is logged and the loop waits for
// the next tick.
type Scheduler struct {
	store           storage.Store
	channel         Channel
	destinations    []int64
	interval        time.Duration
	deliveryTimeout time.Duration
}

// NewScheduler creates a scheduler delivering to the given destinations.
// A non-positive interval or timeout falls back to the defaults.
func NewScheduler(store storage.Store, channel Channel, destinations []int64, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		store:           store,
		channel:         channel,
		destinations:    destinations,
		interval:        interval,
		deliveryTimeout: DefaultDeliveryTimeout,
	}
}

// Run executes backup cycles until ctx is cancelled. The first cycle runs
// immediately, matching the original daily job; subsequent cycles follow the
// configured interval.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Backup scheduler started",
		"interval", s.interval,
		"destinations", len(s.destinations),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Backup scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// runCycle exports once and attempts delivery to every destination
// independently: one failed destination neither aborts the others nor the
// loop.
func (s *Scheduler) runCycle(ctx context.Context) {
	blob, filename, err := Export(ctx, s.store)
	if err != nil {
		// Store access failed; skip this cycle rather than crash.
		metrics.BackupCycles.WithLabelValues("error").Inc()
		slog.Error("Backup cycle failed, skipping", "error", err)
		return
	}

	failed := 0
	for _, dest := range s.destinations {
		if err := s.deliver(ctx, dest, filename, blob); err != nil {
			failed++
			metrics.BackupDeliveries.WithLabelValues("error").Inc()
			slog.Error("Snapshot delivery failed",
				"destination", dest,
				"filename", filename,
				"error", err,
			)
			continue
		}
		metrics.BackupDeliveries.WithLabelValues("ok").Inc()
	}

	if failed > 0 {
		metrics.BackupCycles.WithLabelValues("partial").Inc()
	} else {
		metrics.BackupCycles.WithLabelValues("ok").Inc()
	}
	slog.Info("Backup cycle finished",
		"filename", filename,
		"bytes", len(blob),
		"delivered", len(s.destinations)-failed,
		"failed", failed,
	)
}

func (s *Scheduler) deliver(ctx context.Context, dest int64, filename string, blob []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()
	return s.channel.Deliver(ctx, dest, filename, blob)
}
