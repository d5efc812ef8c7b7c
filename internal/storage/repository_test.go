package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"depenses/internal/core"
	"depenses/internal/store"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEntry(id, desc string, cents int64) core.Entry {
	return core.Entry{
		ID:          id,
		Date:        core.NewDate(2025, 3, 10),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: cents / 2},
		OtherShare:  core.Money{Cents: cents - cents/2},
		Periodic:    true,
	}
}

func TestAppendAndReadAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	want := testEntry("id-1", "Loyer", 100000)
	ref, err := repo.Append(ctx, want)
	if err != nil || ref == "" {
		t.Fatalf("append: ref=%q err=%v", ref, err)
	}

	got, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}

func TestAppendBatchOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	n, err := repo.AppendBatch(ctx, []core.Entry{
		testEntry("a", "first", 100),
		testEntry("b", "second", 200),
		testEntry("c", "third", 300),
	})
	if err != nil || n != 3 {
		t.Fatalf("batch: n=%d err=%v", n, err)
	}

	got, err := repo.ReadAll(ctx)
	if err != nil || len(got) != 3 {
		t.Fatalf("read all: %v err=%v", got, err)
	}
	for i, desc := range []string{"first", "second", "third"} {
		if got[i].Description != desc {
			t.Fatalf("row %d = %q, want %q (insertion order)", i, got[i].Description, desc)
		}
	}
}

func TestDeleteByIDAndTuple(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	// Two rows with identical (description, amount): the tuple fallback
	// removes the earlier insertion, an ID removes the exact row.
	_, _ = repo.Append(ctx, testEntry("id-1", "Café", 2000))
	_, _ = repo.Append(ctx, testEntry("id-2", "Café", 2000))

	if err := repo.Delete(ctx, store.DeleteRequest{Description: "Café", AmountCents: 2000}); err != nil {
		t.Fatalf("tuple delete: %v", err)
	}
	left, _ := repo.ReadAll(ctx)
	if len(left) != 1 || left[0].ID != "id-2" {
		t.Fatalf("expected id-2 to survive, got %+v", left)
	}

	if err := repo.Delete(ctx, store.DeleteRequest{ID: "id-2"}); err != nil {
		t.Fatalf("id delete: %v", err)
	}
	if err := repo.Delete(ctx, store.DeleteRequest{ID: "id-2"}); !errors.Is(err, store.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	want := testEntry("id-9", "Internet", 6000)
	_, _ = repo.Append(ctx, want)

	got, err := repo.GetByID(ctx, "id-9")
	if err != nil || got != want {
		t.Fatalf("GetByID = %+v err=%v, want %+v", got, err, want)
	}

	if _, err := repo.GetByID(ctx, "absent"); !errors.Is(err, store.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
