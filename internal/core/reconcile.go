package core

import "strings"

// Template is a deduplicated (description, amount) pair drawn from periodic
// entries, carrying the payer and shares of its first occurrence. Templates
// are a projection of history recomputed on every pass, not stored entities:
// renaming a recurring expense or changing its amount creates a second,
// independent template rather than updating the old one.
type Template struct {
	Description string
	Amount      Money
	Payer       Participant
	PayerShare  Money
	OtherShare  Money
}

// AutoDescription returns the description carried by entries generated from
// this template.
func (t Template) AutoDescription() string {
	return AutoPrefix + t.Description
}

type templateKey struct {
	description string
	cents       int64
}

// Templates derives the template set from an entry collection: periodic
// entries whose description lacks the AUTO prefix, deduplicated on
// (description, amount) with first write winning. Order is first-seen, which
// keeps reconciliation output deterministic for a given snapshot.
func Templates(entries []Entry) []Template {
	seen := make(map[templateKey]struct{})
	var out []Template
	for _, e := range entries {
		if !e.TemplateSource() {
			continue
		}
		if e.Amount.Cents <= 0 {
			// Never seed a template that would materialize a non-positive amount.
			continue
		}
		k := templateKey{description: e.Description, cents: e.Amount.Cents}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Template{
			Description: e.Description,
			Amount:      e.Amount,
			Payer:       e.Payer,
			PayerShare:  e.PayerShare,
			OtherShare:  e.OtherShare,
		})
	}
	return out
}

// Materialized collects the descriptions of AUTO entries already present in
// the target period. Duplicates collapse: one materialization is enough to
// mark a template as done for the period.
func Materialized(entries []Entry, period Period) map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range entries {
		if !e.IsMaterialization() {
			continue
		}
		if !period.Contains(e.Date) {
			continue
		}
		out[e.Description] = struct{}{}
	}
	return out
}

// FindMissing determines which recurring templates have not been materialized
// for the target period and returns the entries needed to catch up, dated at
// refDate. It is a pure computation over the snapshot it is handed: the
// caller must persist every returned entry before the next pass for the
// system to converge, and must hand in a freshly read snapshot each time.
//
// The returned entries carry no ID; the service assigns one at append time.
func FindMissing(entries []Entry, period Period, refDate Date) []Entry {
	templates := Templates(entries)
	if len(templates) == 0 {
		return nil
	}
	done := Materialized(entries, period)

	var out []Entry
	for _, t := range templates {
		if _, ok := done[AutoPrefix+t.Description]; ok {
			continue
		}
		out = append(out, Entry{
			Date:        refDate,
			Description: AutoPrefix + t.Description,
			Amount:      t.Amount,
			Payer:       t.Payer,
			PayerShare:  t.PayerShare,
			OtherShare:  t.OtherShare,
			Periodic:    true,
		})
	}
	return out
}

// StripAuto removes the materialization prefix from a description.
func StripAuto(description string) string {
	return strings.TrimPrefix(description, AutoPrefix)
}
