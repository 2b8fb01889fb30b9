// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method and status code.
	// Paths are left out to keep label cardinality bounded.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daynotes_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "status"})

	// BackupCycles counts scheduler cycles by outcome.
	BackupCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daynotes_backup_cycles_total",
		Help: "Backup scheduler cycles.",
	}, []string{"outcome"})

	// BackupDeliveries counts per-destination snapshot deliveries by outcome.
	BackupDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daynotes_backup_deliveries_total",
		Help: "Snapshot deliveries to configured destinations.",
	}, []string{"outcome"})

	// Restores counts dataset replacements by outcome.
	Restores = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daynotes_restores_total",
		Help: "Snapshot restore operations.",
	}, []string{"outcome"})
)
