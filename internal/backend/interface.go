// Package backend selects and constructs the ledger store used by the
// application: an in-memory store, a local SQLite database, or a Google
// Sheets tab.
package backend

import (
	"context"

	"depenses/internal/store"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result bundles a constructed ledger with its optional cleanup function.
type Result struct {
	Ledger  store.Ledger
	Cleanup CleanupFunc
}

// Factory creates ledger backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*Result, error)
}

// Config holds the settings needed to construct a backend.
type Config struct {
	Type Type

	// SQLite
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// Type identifies a backend implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether the backend type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
