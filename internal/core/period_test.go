package core

import (
	"testing"
	"time"
)

func TestPeriodOf(t *testing.T) {
	if got := PeriodOf(NewDate(2025, 3, 15)); got != "2025-03" {
		t.Errorf("PeriodOf = %s, want 2025-03", got)
	}
	if got := PeriodOf(Date{}); got != "" {
		t.Errorf("empty date must have no period, got %s", got)
	}
}

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2025, 11, 30, 23, 59, 0, 0, time.UTC)
	if got := CurrentPeriod(now); got != "2025-11" {
		t.Errorf("CurrentPeriod = %s, want 2025-11", got)
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod("2025-03"); err != nil || p != "2025-03" {
		t.Errorf("ParsePeriod = (%s, %v)", p, err)
	}
	for _, bad := range []string{"2025", "03-2025", "2025-13", "hello"} {
		if _, err := ParsePeriod(bad); err == nil {
			t.Errorf("ParsePeriod(%q) expected error", bad)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period("2025-03")
	if !p.Contains(NewDate(2025, 3, 1)) || p.Contains(NewDate(2025, 4, 1)) {
		t.Fatal("period membership broken")
	}
	if Period("").Contains(NewDate(2025, 3, 1)) {
		t.Fatal("empty period contains nothing")
	}
}
