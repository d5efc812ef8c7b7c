// Package metrics exposes Prometheus collectors for the ledger services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesCreated counts entries appended to the store, by origin
	// ("manual" or "recurrence").
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "depenses",
		Name:      "entries_created_total",
		Help:      "Number of ledger entries appended to the store.",
	}, []string{"origin"})

	// EntriesDeleted counts delete operations applied to the store.
	EntriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "depenses",
		Name:      "entries_deleted_total",
		Help:      "Number of ledger entries deleted from the store.",
	})

	// ReconcileRuns counts reconciliation passes by outcome
	// ("complete", "partial", "failed", "noop").
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "depenses",
		Name:      "reconcile_runs_total",
		Help:      "Number of recurrence reconciliation passes by outcome.",
	}, []string{"outcome"})

	// SnapshotReadErrors counts failed full-ledger reads.
	SnapshotReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "depenses",
		Name:      "snapshot_read_errors_total",
		Help:      "Number of failed ledger snapshot reads.",
	})
)
