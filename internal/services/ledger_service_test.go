package services

import (
	"context"
	"testing"
	"time"

	"depenses/internal/core"
	"depenses/internal/store"
	"depenses/internal/store/memory"
)

var pair = core.Pair{First: "Jean-Denis", Other: "Élyane"}

func newLedger(t *testing.T, seed ...core.Entry) (*LedgerService, *memory.Store) {
	t.Helper()
	st := memory.New(seed...)
	return NewLedgerService(st, pair, nil), st
}

func TestCreateEntryComputesSplitAndID(t *testing.T) {
	svc, st := newLedger(t)

	e, err := svc.CreateEntry(context.Background(), EntryInput{
		Date:        core.NewDate(2025, 3, 10),
		Description: "Maxi",
		AmountCents: 10000,
		Payer:       "Jean-Denis",
		Mode:        core.SplitEqual,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" {
		t.Error("expected a stable ID assigned at creation")
	}
	if e.PayerShare.Cents != 5000 || e.OtherShare.Cents != 5000 {
		t.Errorf("unexpected split: %+v", e)
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 stored entry, got %d", st.Len())
	}
}

func TestCreateEntrySplitModes(t *testing.T) {
	tests := []struct {
		name   string
		mode   core.SplitMode
		custom float64
		payer  int64
		other  int64
	}{
		{"payer full", core.SplitPayerFull, 0, 10000, 0},
		{"other full", core.SplitOtherFull, 0, 0, 10000},
		{"custom", core.SplitCustom, 25, 2500, 7500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newLedger(t)
			e, err := svc.CreateEntry(context.Background(), EntryInput{
				Date:          core.NewDate(2025, 3, 10),
				Description:   "x",
				AmountCents:   10000,
				Payer:         "Élyane",
				Mode:          tt.mode,
				CustomPercent: tt.custom,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if e.PayerShare.Cents != tt.payer || e.OtherShare.Cents != tt.other {
				t.Errorf("split = (%d, %d), want (%d, %d)",
					e.PayerShare.Cents, e.OtherShare.Cents, tt.payer, tt.other)
			}
		})
	}
}

func TestCreateEntryRejectsInvalidInput(t *testing.T) {
	svc, st := newLedger(t)
	ctx := context.Background()

	bad := []EntryInput{
		{Date: core.NewDate(2025, 3, 10), Description: "", AmountCents: 100, Payer: "Jean-Denis", Mode: core.SplitEqual},
		{Date: core.NewDate(2025, 3, 10), Description: "x", AmountCents: 0, Payer: "Jean-Denis", Mode: core.SplitEqual},
		{Date: core.NewDate(2025, 3, 10), Description: "x", AmountCents: 100, Payer: "Nobody", Mode: core.SplitEqual},
		{Date: core.NewDate(2025, 3, 10), Description: "x", AmountCents: 100, Payer: "Jean-Denis", Mode: core.SplitCustom, CustomPercent: 150},
		{Date: core.Date{}, Description: "x", AmountCents: 100, Payer: "Jean-Denis", Mode: core.SplitEqual},
	}
	for i, in := range bad {
		if _, err := svc.CreateEntry(ctx, in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if st.Len() != 0 {
		t.Errorf("invalid input must never be persisted, got %d rows", st.Len())
	}
}

func TestBalanceView(t *testing.T) {
	svc, _ := newLedger(t, core.Entry{
		Date:        core.NewDate(2025, 3, 1),
		Description: "Loyer",
		Amount:      core.Money{Cents: 100000},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: 50000},
		OtherShare:  core.Money{Cents: 50000},
	})

	view, err := svc.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if view.Net.Cents != 50000 || view.Creditor != "Jean-Denis" || view.Debtor != "Élyane" || view.Owed.Cents != 50000 {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestBalanceSuppressedOnReadFailure(t *testing.T) {
	svc, st := newLedger(t)
	st.FailReads(true)
	if _, err := svc.Balance(context.Background()); err == nil {
		t.Fatal("expected hard failure, not a partial figure")
	}
}

func TestHistoryFilterAndPeriods(t *testing.T) {
	mk := func(d core.Date, desc string) core.Entry {
		return core.Entry{Date: d, Description: desc, Amount: core.Money{Cents: 100}, Payer: "Jean-Denis", OtherShare: core.Money{Cents: 100}}
	}
	svc, _ := newLedger(t,
		mk(core.NewDate(2025, 2, 5), "feb"),
		mk(core.NewDate(2025, 3, 1), "mar-early"),
		mk(core.NewDate(2025, 3, 20), "mar-late"),
	)

	entries, periods, err := svc.History(context.Background(), core.Period("2025-03"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 || entries[0].Description != "mar-late" {
		t.Errorf("expected march entries newest first, got %v", entries)
	}
	if len(periods) != 2 || periods[0] != "2025-03" || periods[1] != "2025-02" {
		t.Errorf("expected periods descending, got %v", periods)
	}

	all, _, err := svc.History(context.Background(), "")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected full history, got %v err=%v", all, err)
	}
}

func TestDeleteEntry(t *testing.T) {
	seed := core.Entry{ID: "id-1", Date: core.NewDate(2025, 3, 1), Description: "Café", Amount: core.Money{Cents: 2000}, Payer: "Jean-Denis", OtherShare: core.Money{Cents: 2000}}
	svc, st := newLedger(t, seed)

	if err := svc.DeleteEntry(context.Background(), store.DeleteRequest{ID: "id-1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Len() != 0 {
		t.Fatal("expected entry removed")
	}
	if err := svc.DeleteEntry(context.Background(), store.DeleteRequest{}); err == nil {
		t.Fatal("expected error for empty delete request")
	}
}

func TestDefaultEntryDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	d := DefaultEntryDate(now)
	if d.Year() != 2025 || d.Month() != 3 || d.Day() != 10 {
		t.Errorf("unexpected date: %v", d)
	}
}
