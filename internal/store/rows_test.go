package store

import (
	"testing"

	"depenses/internal/core"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		want core.Entry
		ok   bool
	}{
		{
			name: "full row with dot separator",
			cols: []string{"2025-03-10", "Maxi", "100.00", "Jean-Denis", "50.00", "50.00", "Non", "abc-123"},
			want: core.Entry{
				ID:          "abc-123",
				Date:        core.NewDate(2025, 3, 10),
				Description: "Maxi",
				Amount:      core.Money{Cents: 10000},
				Payer:       "Jean-Denis",
				PayerShare:  core.Money{Cents: 5000},
				OtherShare:  core.Money{Cents: 5000},
			},
			ok: true,
		},
		{
			name: "comma separator and Oui flag",
			cols: []string{"2025-03-01", "Loyer", "1000,50", "Élyane", "500,25", "500,25", "Oui"},
			want: core.Entry{
				Date:        core.NewDate(2025, 3, 1),
				Description: "Loyer",
				Amount:      core.Money{Cents: 100050},
				Payer:       "Élyane",
				PayerShare:  core.Money{Cents: 50025},
				OtherShare:  core.Money{Cents: 50025},
				Periodic:    true,
			},
			ok: true,
		},
		{
			name: "malformed amount coerces to zero",
			cols: []string{"2025-03-10", "Corrupt", "abc", "Jean-Denis", "abc", "abc", "Non"},
			want: core.Entry{
				Date:        core.NewDate(2025, 3, 10),
				Description: "Corrupt",
				Payer:       "Jean-Denis",
			},
			ok: true,
		},
		{
			name: "malformed date keeps entry without period",
			cols: []string{"not-a-date", "Maxi", "10.00", "Jean-Denis", "5.00", "5.00", "Non"},
			want: core.Entry{
				Description: "Maxi",
				Amount:      core.Money{Cents: 1000},
				Payer:       "Jean-Denis",
				PayerShare:  core.Money{Cents: 500},
				OtherShare:  core.Money{Cents: 500},
			},
			ok: true,
		},
		{name: "header row skipped", cols: Header, ok: false},
		{name: "blank row skipped", cols: []string{"", "", ""}, ok: false},
		{name: "short row skipped", cols: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRow(tt.cols)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseRow = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRowValuesRoundTrip(t *testing.T) {
	e := core.Entry{
		ID:          "id-1",
		Date:        core.NewDate(2025, 3, 10),
		Description: "Maxi",
		Amount:      core.Money{Cents: 12345},
		Payer:       "Jean-Denis",
		PayerShare:  core.Money{Cents: 6173},
		OtherShare:  core.Money{Cents: 6172},
		Periodic:    true,
	}
	back, ok := ParseRow(StringCols(RowValues(e)))
	if !ok {
		t.Fatal("round-tripped row did not parse")
	}
	if back != e {
		t.Errorf("round trip mismatch: %+v != %+v", back, e)
	}
}

func TestMatchesDelete(t *testing.T) {
	withID := core.Entry{ID: "id-1", Description: "Café", Amount: core.Money{Cents: 2000}}
	noID := core.Entry{Description: "Café", Amount: core.Money{Cents: 2000}}

	if !MatchesDelete(withID, DeleteRequest{ID: "id-1"}) {
		t.Error("expected ID match")
	}
	if MatchesDelete(withID, DeleteRequest{ID: "other"}) {
		t.Error("unexpected ID match")
	}
	// Tuple fallback ignores the stored ID entirely.
	if !MatchesDelete(noID, DeleteRequest{Description: "Café", AmountCents: 2000}) {
		t.Error("expected tuple match")
	}
	if MatchesDelete(noID, DeleteRequest{Description: "Café", AmountCents: 2001}) {
		t.Error("unexpected tuple match on different amount")
	}
}
