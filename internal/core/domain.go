package core

import (
	"errors"
	"strings"
	"time"
)

// AutoPrefix marks system-generated materializations of recurring templates.
// Entries carrying it are never hand-entered originals.
const AutoPrefix = "[AUTO] "

type (
	// Participant is one of the two fixed ledger participants. The pair is
	// configured at deployment and never derived from data.
	Participant string

	// Pair holds the two participants. First/Other fixes the sign convention
	// of the net balance: positive means Other owes First.
	Pair struct {
		First Participant
		Other Participant
	}

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is a single immutable ledger record. ID is an opaque identifier
	// assigned at creation; rows written before IDs existed may have none,
	// in which case delete and match operations fall back to the
	// (description, amount) tuple.
	Entry struct {
		ID          string
		Date        Date
		Description string
		Amount      Money
		Payer       Participant
		PayerShare  Money
		OtherShare  Money
		Periodic    bool
	}
)

var (
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrUnknownPayer        = errors.New("payer is not a ledger participant")
	ErrInvalidSplitPercent = errors.New("split percent out of range")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrSharesMismatch      = errors.New("shares do not sum to total amount")
)

// NewPair builds a participant pair. Identifiers must be distinct and non-empty.
func NewPair(first, other string) (Pair, error) {
	first = strings.TrimSpace(first)
	other = strings.TrimSpace(other)
	if first == "" || other == "" {
		return Pair{}, errors.New("participant names cannot be empty")
	}
	if first == other {
		return Pair{}, errors.New("participants must be distinct")
	}
	return Pair{First: Participant(first), Other: Participant(other)}, nil
}

// Contains reports whether p is one of the pair's participants.
func (pr Pair) Contains(p Participant) bool {
	return p == pr.First || p == pr.Other
}

// CounterpartOf returns the other member of the pair.
func (pr Pair) CounterpartOf(p Participant) Participant {
	if p == pr.First {
		return pr.Other
	}
	return pr.First
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero. Snapshot rows with an unparsable
// date end up empty; they still count toward the balance but belong to no period.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsMaterialization reports whether the entry was generated from a recurring
// template rather than entered by hand.
func (e Entry) IsMaterialization() bool {
	return strings.HasPrefix(e.Description, AutoPrefix)
}

// TemplateSource reports whether the entry defines a recurring template:
// flagged periodic and not itself a generated materialization.
func (e Entry) TemplateSource() bool {
	return e.Periodic && !e.IsMaterialization()
}

// Validate checks an entry before it is persisted. Zero or negative amounts
// must never reach the store.
func (e Entry) Validate(pair Pair) error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !pair.Contains(e.Payer) {
		return ErrUnknownPayer
	}
	if e.PayerShare.Cents < 0 || e.OtherShare.Cents < 0 {
		return ErrInvalidAmount
	}
	if e.PayerShare.Cents+e.OtherShare.Cents != e.Amount.Cents {
		return ErrSharesMismatch
	}
	return nil
}
