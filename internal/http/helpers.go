package http

import (
	"errors"
	"strings"

	"depenses/internal/core"
)

// isValidationError reports whether err comes from input validation rather
// than from the store.
func isValidationError(err error) bool {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrUnknownPayer),
		errors.Is(err, core.ErrInvalidSplitPercent),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrSharesMismatch),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrInvalidMonth):
		return true
	}
	return false
}

// periodLabel renders "2025-03" as "03/2025" for the history selector.
func periodLabel(p core.Period) string {
	parts := strings.SplitN(string(p), "-", 2)
	if len(parts) != 2 {
		return string(p)
	}
	return parts[1] + "/" + parts[0]
}
