package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCoerceCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{"1000", 100000},
		{" 2.5 ", 250},
		{"abc", 0}, // corrupt row coerces to zero instead of failing
		{"", 0},
		{"12..3", 0},
	}
	for _, tc := range cases {
		if got := CoerceCents(tc.in); got != tc.out {
			t.Errorf("CoerceCents(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	m := Money{Cents: 123456}
	if got := m.Format("CAD"); got == "" {
		t.Fatal("expected formatted amount")
	}
	if got := (Money{Cents: -50}).Abs(); got.Cents != 50 {
		t.Errorf("Abs() = %d, want 50", got.Cents)
	}
}

func TestMoneyFloat(t *testing.T) {
	if got := (Money{Cents: 1234}).Float(); got != 12.34 {
		t.Errorf("Float() = %v, want 12.34", got)
	}
}
