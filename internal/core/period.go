package core

import (
	"fmt"
	"time"
)

// Period is a calendar-month grouping key in YYYY-MM form. It is derived from
// an entry's date for grouping and filtering only, never for identity.
type Period string

// PeriodOf returns the period key of a date. Empty dates have no period.
func PeriodOf(d Date) Period {
	if d.IsEmpty() {
		return ""
	}
	return Period(d.Format("2006-01"))
}

// CurrentPeriod derives the period key from a reference time. Callers must
// re-derive it at the moment of invocation, not earlier.
func CurrentPeriod(now time.Time) Period {
	return Period(now.Format("2006-01"))
}

// ParsePeriod validates a YYYY-MM key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Period(t.Format("2006-01")), nil
}

func (p Period) String() string { return string(p) }

// Contains reports whether the date falls inside the period.
func (p Period) Contains(d Date) bool {
	return p != "" && PeriodOf(d) == p
}
