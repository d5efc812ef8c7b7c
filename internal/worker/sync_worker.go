package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"depenses/internal/amqp"
	"depenses/internal/store"
)

// SyncWorker applies queued ledger operations to the remote store. The local
// backend stays authoritative for the UI; the worker keeps the spreadsheet
// in step, one message at a time.
type SyncWorker struct {
	appender store.EntryAppender
	deleter  store.EntryDeleter
}

func NewSyncWorker(appender store.EntryAppender, deleter store.EntryDeleter) *SyncWorker {
	return &SyncWorker{
		appender: appender,
		deleter:  deleter,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP.
// Returning an error requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	switch msg.Action {
	case amqp.OpAppend:
		return w.handleAppend(ctx, msg)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg)
	default:
		// Unknown actions are dropped, not requeued: retrying cannot fix them.
		slog.WarnContext(ctx, "Dropping message with unknown action", "action", msg.Action)
		return nil
	}
}

func (w *SyncWorker) handleAppend(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	if msg.Entry == nil {
		slog.WarnContext(ctx, "Dropping append message without entry payload")
		return nil
	}
	e, err := msg.Entry.ToEntry()
	if err != nil {
		slog.WarnContext(ctx, "Dropping malformed append message", "error", err)
		return nil
	}

	ref, err := w.appender.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append to remote store: %w", err)
	}

	slog.InfoContext(ctx, "Entry synced to remote store",
		"id", e.ID,
		"description", e.Description,
		"store_ref", ref)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	req := msg.DeleteRequest()
	err := w.deleter.Delete(ctx, req)
	if errors.Is(err, store.ErrEntryNotFound) {
		// Already gone remotely; treat as done rather than requeueing forever.
		slog.WarnContext(ctx, "Delete target not found in remote store",
			"id", req.ID,
			"description", req.Description)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from remote store: %w", err)
	}

	slog.InfoContext(ctx, "Entry deleted from remote store",
		"id", req.ID,
		"description", req.Description)
	return nil
}
