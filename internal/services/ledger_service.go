// Package services provides business logic and orchestration on top of the
// core engine and the outbound store adapters.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"depenses/internal/amqp"
	"depenses/internal/core"
	"depenses/internal/metrics"
	"depenses/internal/store"
)

// EntryInput is the raw user input for a new entry, validated here before
// anything reaches the engine.
type EntryInput struct {
	Date          core.Date
	Description   string
	AmountCents   int64
	Payer         core.Participant
	Mode          core.SplitMode
	CustomPercent float64
	Periodic      bool
}

// BalanceView is the computed state shown to a participant.
type BalanceView struct {
	Net      core.Money
	Creditor core.Participant
	Debtor   core.Participant
	Owed     core.Money
}

// LedgerService orchestrates entry operations against the store. It holds no
// ledger state of its own: every computation starts from a fresh snapshot.
type LedgerService struct {
	ledger store.Ledger
	pair   core.Pair
	amqp   *amqp.Client
}

func NewLedgerService(ledger store.Ledger, pair core.Pair, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		ledger: ledger,
		pair:   pair,
		amqp:   amqpClient,
	}
}

// Pair returns the configured participant pair.
func (s *LedgerService) Pair() core.Pair { return s.pair }

// CreateEntry validates the input, computes the split, assigns a stable ID
// and appends the entry to the store.
func (s *LedgerService) CreateEntry(ctx context.Context, in EntryInput) (core.Entry, error) {
	if in.Mode == core.SplitCustom {
		if err := core.ValidateSplitPercent(in.CustomPercent); err != nil {
			return core.Entry{}, err
		}
	}

	pct := in.Mode.PayerPercent(in.CustomPercent)
	payerShare, otherShare := core.ComputeSplit(core.Money{Cents: in.AmountCents}, pct)

	e := core.Entry{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Description: in.Description,
		Amount:      core.Money{Cents: in.AmountCents},
		Payer:       in.Payer,
		PayerShare:  payerShare,
		OtherShare:  otherShare,
		Periodic:    in.Periodic,
	}
	if err := e.Validate(s.pair); err != nil {
		return core.Entry{}, err
	}

	ref, err := s.ledger.Append(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("append entry: %w", err)
	}
	metrics.EntriesCreated.WithLabelValues("manual").Inc()

	s.publishAppend(ctx, e)

	slog.InfoContext(ctx, "Entry created",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"payer", e.Payer,
		"periodic", e.Periodic,
		"store_ref", ref)

	return e, nil
}

// DeleteEntry removes a single entry. A request without an ID falls back to
// the (description, amount) tuple; when two rows share both values the store
// removes the first in snapshot order.
func (s *LedgerService) DeleteEntry(ctx context.Context, req store.DeleteRequest) error {
	if req.ID == "" && req.Description == "" {
		return fmt.Errorf("delete request needs an ID or a (description, amount) tuple")
	}
	if err := s.ledger.Delete(ctx, req); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	metrics.EntriesDeleted.Inc()

	s.publishDelete(ctx, req)

	slog.InfoContext(ctx, "Entry deleted",
		"id", req.ID,
		"description", req.Description,
		"amount_cents", req.AmountCents)
	return nil
}

// Balance reads a fresh snapshot and computes the net balance. A failed read
// is a hard error: no partial or stale figure is ever returned.
func (s *LedgerService) Balance(ctx context.Context) (BalanceView, error) {
	entries, err := s.ledger.ReadAll(ctx)
	if err != nil {
		metrics.SnapshotReadErrors.Inc()
		return BalanceView{}, fmt.Errorf("read ledger: %w", err)
	}

	net := core.ComputeBalance(entries, s.pair)
	creditor, debtor, owed := core.Creditor(net, s.pair)
	return BalanceView{Net: net, Creditor: creditor, Debtor: debtor, Owed: owed}, nil
}

// History returns entries filtered by period (empty period means all),
// newest first, along with the distinct periods present in the ledger for
// filter rendering (descending).
func (s *LedgerService) History(ctx context.Context, period core.Period) ([]core.Entry, []core.Period, error) {
	entries, err := s.ledger.ReadAll(ctx)
	if err != nil {
		metrics.SnapshotReadErrors.Inc()
		return nil, nil, fmt.Errorf("read ledger: %w", err)
	}

	seen := make(map[core.Period]struct{})
	var periods []core.Period
	var out []core.Entry
	for _, e := range entries {
		p := core.PeriodOf(e.Date)
		if p != "" {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				periods = append(periods, p)
			}
		}
		if period == "" || p == period {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	sort.Slice(periods, func(i, j int) bool { return periods[i] > periods[j] })
	return out, periods, nil
}

func (s *LedgerService) publishAppend(ctx context.Context, e core.Entry) {
	if s.amqp == nil {
		return
	}
	if err := s.amqp.PublishAppend(ctx, e); err != nil {
		// The entry is saved locally; sync catches up on the next run.
		slog.ErrorContext(ctx, "Failed to publish append message", "id", e.ID, "error", err)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, req store.DeleteRequest) {
	if s.amqp == nil {
		return
	}
	if err := s.amqp.PublishDelete(ctx, req); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", req.ID, "error", err)
	}
}

// Close releases the AMQP connection if one was configured.
func (s *LedgerService) Close() error {
	if s.amqp != nil {
		return s.amqp.Close()
	}
	return nil
}

// DefaultEntryDate returns today's date at day granularity. The shell fills
// the date picker with it; the engine never reads the wall clock itself.
func DefaultEntryDate(now time.Time) core.Date {
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}
