package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"depenses/internal/core"
	"depenses/internal/metrics"
	"depenses/internal/store"
)

// RecurrenceService drives the recurrence reconciler against the store: it
// reads a fresh snapshot, asks the engine what is missing for the period and
// appends the materializations.
type RecurrenceService struct {
	ledger *LedgerService
	store  store.Ledger
}

func NewRecurrenceService(ledger *LedgerService, st store.Ledger) *RecurrenceService {
	return &RecurrenceService{ledger: ledger, store: st}
}

// Status describes the reconciliation state for a period.
type Status struct {
	Period    core.Period
	Templates []core.Template
	Missing   []core.Entry
}

// ReportStatus computes, without writing anything, which templates are still
// missing a materialization for the period derived from now.
func (s *RecurrenceService) ReportStatus(ctx context.Context, now time.Time) (Status, error) {
	period := core.CurrentPeriod(now)
	entries, err := s.store.ReadAll(ctx)
	if err != nil {
		metrics.SnapshotReadErrors.Inc()
		return Status{}, fmt.Errorf("read ledger: %w", err)
	}
	return Status{
		Period:    period,
		Templates: core.Templates(entries),
		Missing:   core.FindMissing(entries, period, DefaultEntryDate(now)),
	}, nil
}

// Result reports how a reconciliation pass went. Generated < Missing means a
// partial pass: some appends failed and the next run recomputes the rest.
type Result struct {
	Period    core.Period
	Missing   int
	Generated int
}

// Reconcile materializes every missing recurring entry for the current
// period. The period and reference date derive from now at the moment of the
// call, never earlier. Appends are batched through the store's AppendBatch
// contract; there is still no all-or-nothing guarantee, so a failure partway
// returns both the error and the count that made it in.
func (s *RecurrenceService) Reconcile(ctx context.Context, now time.Time) (Result, error) {
	period := core.CurrentPeriod(now)
	res := Result{Period: period}

	entries, err := s.store.ReadAll(ctx)
	if err != nil {
		metrics.SnapshotReadErrors.Inc()
		metrics.ReconcileRuns.WithLabelValues("failed").Inc()
		return res, fmt.Errorf("read ledger: %w", err)
	}

	missing := core.FindMissing(entries, period, DefaultEntryDate(now))
	res.Missing = len(missing)
	if len(missing) == 0 {
		metrics.ReconcileRuns.WithLabelValues("noop").Inc()
		slog.InfoContext(ctx, "Recurrences up to date", "period", period)
		return res, nil
	}

	for i := range missing {
		missing[i].ID = uuid.NewString()
	}

	appended, err := s.store.AppendBatch(ctx, missing)
	res.Generated = appended
	for _, e := range missing[:appended] {
		metrics.EntriesCreated.WithLabelValues("recurrence").Inc()
		s.ledger.publishAppend(ctx, e)
	}

	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("partial").Inc()
		slog.ErrorContext(ctx, "Reconciliation incomplete",
			"period", period,
			"missing", res.Missing,
			"generated", appended,
			"error", err)
		return res, fmt.Errorf("append materializations (%d/%d written): %w", appended, len(missing), err)
	}

	metrics.ReconcileRuns.WithLabelValues("complete").Inc()
	slog.InfoContext(ctx, "Reconciliation complete",
		"period", period,
		"generated", appended)
	return res, nil
}
