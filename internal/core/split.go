package core

import "math"

// SplitMode is a named split policy mapping to the payer's share percentage.
type SplitMode string

const (
	SplitEqual     SplitMode = "equal"      // 50/50
	SplitPayerFull SplitMode = "payer_full" // payer carries everything
	SplitOtherFull SplitMode = "other_full" // the other participant carries everything
	SplitCustom    SplitMode = "custom"     // caller-supplied percent
)

// PayerPercent resolves a split mode to the payer's share percentage.
// For SplitCustom the custom value is returned as-is; callers must have
// validated it with ValidateSplitPercent beforehand.
func (m SplitMode) PayerPercent(custom float64) float64 {
	switch m {
	case SplitPayerFull:
		return 100
	case SplitOtherFull:
		return 0
	case SplitCustom:
		return custom
	default:
		return 50
	}
}

// ValidateSplitPercent rejects percentages outside [0,100]. Out-of-range
// values must never reach ComputeSplit.
func ValidateSplitPercent(pct float64) error {
	if pct < 0 || pct > 100 || math.IsNaN(pct) {
		return ErrInvalidSplitPercent
	}
	return nil
}

// ComputeSplit divides a total between the payer and the other participant.
// The payer share is rounded half-up to the cent; the other share is computed
// by subtraction, never from the complementary percentage, so the two shares
// always sum exactly to the total. Assumes a non-negative total and a percent
// already validated by the caller.
func ComputeSplit(total Money, payerPercent float64) (payerShare, otherShare Money) {
	cents := int64(math.Round(float64(total.Cents) * payerPercent / 100.0))
	if cents < 0 {
		cents = 0
	}
	if cents > total.Cents {
		cents = total.Cents
	}
	return Money{Cents: cents}, Money{Cents: total.Cents - cents}
}
