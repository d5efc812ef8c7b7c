package core

import "testing"

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name       string
		totalCents int64
		percent    float64
		payer      int64
		other      int64
	}{
		{"equal split", 10000, 50, 5000, 5000},
		{"payer full", 10000, 100, 10000, 0},
		{"other full", 10000, 0, 0, 10000},
		{"odd amount equal split", 3333, 50, 1667, 1666},
		{"custom 30 percent", 10000, 30, 3000, 7000},
		{"custom fractional percent", 999, 33.3, 333, 666},
		{"zero total", 0, 50, 0, 0},
		{"one cent", 1, 50, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payer, other := ComputeSplit(Money{Cents: tt.totalCents}, tt.percent)
			if payer.Cents != tt.payer || other.Cents != tt.other {
				t.Errorf("ComputeSplit(%d, %v) = (%d, %d), want (%d, %d)",
					tt.totalCents, tt.percent, payer.Cents, other.Cents, tt.payer, tt.other)
			}
			if payer.Cents+other.Cents != tt.totalCents {
				t.Errorf("shares %d+%d do not sum to total %d", payer.Cents, other.Cents, tt.totalCents)
			}
		})
	}
}

func TestComputeSplitSumInvariant(t *testing.T) {
	// The other share is computed by subtraction, so the sum must be exact
	// for any total/percent combination, not just round ones.
	totals := []int64{1, 3, 99, 101, 3333, 123457, 999999999}
	percents := []float64{0, 0.1, 12.5, 33.33, 50, 66.67, 99.9, 100}
	for _, total := range totals {
		for _, pct := range percents {
			payer, other := ComputeSplit(Money{Cents: total}, pct)
			if payer.Cents+other.Cents != total {
				t.Fatalf("total=%d pct=%v: %d+%d != %d", total, pct, payer.Cents, other.Cents, total)
			}
			if payer.Cents < 0 || other.Cents < 0 {
				t.Fatalf("total=%d pct=%v: negative share (%d, %d)", total, pct, payer.Cents, other.Cents)
			}
		}
	}
}

func TestSplitModePayerPercent(t *testing.T) {
	tests := []struct {
		mode   SplitMode
		custom float64
		want   float64
	}{
		{SplitEqual, 0, 50},
		{SplitPayerFull, 0, 100},
		{SplitOtherFull, 0, 0},
		{SplitCustom, 72.5, 72.5},
		{SplitMode("unknown"), 10, 50}, // defaults to equal
	}
	for _, tt := range tests {
		if got := tt.mode.PayerPercent(tt.custom); got != tt.want {
			t.Errorf("%s.PayerPercent(%v) = %v, want %v", tt.mode, tt.custom, got, tt.want)
		}
	}
}

func TestValidateSplitPercent(t *testing.T) {
	for _, pct := range []float64{0, 50, 100, 0.01, 99.99} {
		if err := ValidateSplitPercent(pct); err != nil {
			t.Errorf("ValidateSplitPercent(%v) expected ok, got %v", pct, err)
		}
	}
	for _, pct := range []float64{-1, 100.01, 1000} {
		if err := ValidateSplitPercent(pct); err == nil {
			t.Errorf("ValidateSplitPercent(%v) expected error", pct)
		}
	}
}
