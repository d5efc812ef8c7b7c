package store

import (
	"context"
	"errors"

	"depenses/internal/core"
)

// Ports for outbound adapters. The remote tabular store owns the ledger;
// the engine re-reads the full collection on every computation and never
// caches a snapshot across calls.
type (
	// SnapshotReader loads the full entry collection. A failed read must be
	// surfaced as a hard error: callers suppress balance, history and
	// reconciliation display entirely rather than show partial figures.
	SnapshotReader interface {
		ReadAll(ctx context.Context) ([]core.Entry, error)
	}

	// EntryAppender persists new entries. AppendBatch reports how many of the
	// batch were written before the first failure so a partial reconciliation
	// can be surfaced precisely; the next pass recomputes the remainder.
	EntryAppender interface {
		Append(ctx context.Context, e core.Entry) (rowRef string, err error)
		AppendBatch(ctx context.Context, entries []core.Entry) (appended int, err error)
	}

	// EntryDeleter removes a single entry. Deletion keys off the stable ID
	// when the request carries one; otherwise it falls back to the
	// (description, amount) tuple and removes the first matching row in
	// snapshot order.
	EntryDeleter interface {
		Delete(ctx context.Context, req DeleteRequest) error
	}

	// Ledger bundles the full store contract.
	Ledger interface {
		SnapshotReader
		EntryAppender
		EntryDeleter
	}
)

// DeleteRequest identifies the entry to remove.
type DeleteRequest struct {
	ID          string
	Description string
	AmountCents int64
}

// ErrEntryNotFound is returned when a delete request matches no stored row.
var ErrEntryNotFound = errors.New("entry not found")
