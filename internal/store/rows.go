package store

import (
	"fmt"
	"strings"
	"time"

	"depenses/internal/core"
)

// Column layout of the remote sheet. The French field names are the store's
// schema and are shared with the JSON payloads in the amqp package.
const (
	ColDate        = 0
	ColDescription = 1
	ColTotal       = 2
	ColPayer       = 3
	ColPayerShare  = 4
	ColOtherShare  = 5
	ColPeriodic    = 6
	ColID          = 7

	PeriodicYes = "Oui"
	PeriodicNo  = "Non"

	DateLayout = "2006-01-02"
)

// Header is the first sheet row.
var Header = []string{"Date", "Description", "Montant_Total", "Payeur", "Part_Payeur", "Part_Autre", "Periodique", "ID"}

// ParseRow converts one raw sheet row into an Entry. Numeric fields may
// arrive as strings with either decimal separator; unparsable amounts coerce
// to zero and unparsable dates leave the entry without a period, so one
// corrupt row never aborts the snapshot. Returns false for rows with no
// usable content (blank lines, the header).
func ParseRow(cols []string) (core.Entry, bool) {
	get := func(i int) string {
		if i < 0 || i >= len(cols) {
			return ""
		}
		return strings.TrimSpace(cols[i])
	}

	desc := get(ColDescription)
	if desc == "" || desc == "Description" {
		return core.Entry{}, false
	}

	var date core.Date
	if t, err := time.Parse(DateLayout, get(ColDate)); err == nil {
		date = core.Date{Time: t}
	}

	return core.Entry{
		ID:          get(ColID),
		Date:        date,
		Description: desc,
		Amount:      core.Money{Cents: core.CoerceCents(get(ColTotal))},
		Payer:       core.Participant(get(ColPayer)),
		PayerShare:  core.Money{Cents: core.CoerceCents(get(ColPayerShare))},
		OtherShare:  core.Money{Cents: core.CoerceCents(get(ColOtherShare))},
		Periodic:    strings.EqualFold(get(ColPeriodic), PeriodicYes),
	}, true
}

// RowValues renders an entry as one sheet row in Header order. Amounts are
// written as plain numbers; the store may hand them back as strings.
func RowValues(e core.Entry) []any {
	periodic := PeriodicNo
	if e.Periodic {
		periodic = PeriodicYes
	}
	return []any{
		e.Date.Format(DateLayout),
		e.Description,
		e.Amount.Float(),
		string(e.Payer),
		e.PayerShare.Float(),
		e.OtherShare.Float(),
		periodic,
		e.ID,
	}
}

// MatchesDelete reports whether the entry satisfies a delete request: exact
// ID match when an ID is given, (description, amount) tuple otherwise.
func MatchesDelete(e core.Entry, req DeleteRequest) bool {
	if req.ID != "" {
		return e.ID == req.ID
	}
	return e.Description == req.Description && e.Amount.Cents == req.AmountCents
}

// StringCols flattens a row of sheet values to trimmed strings.
func StringCols(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
