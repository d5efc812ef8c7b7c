package memory

import (
	"context"
	"fmt"
	"sync"

	"depenses/internal/core"
	"depenses/internal/store"
)

// Store is an in-memory ledger used by tests and local runs. It mirrors the
// remote store's semantics: append-only rows, whole-row deletion, full
// snapshot reads.
type Store struct {
	mu      sync.Mutex
	entries []core.Entry

	// failReads forces ReadAll to error, for exercising hard-failure paths.
	failReads bool
}

var _ store.Ledger = (*Store)(nil)

func New(seed ...core.Entry) *Store {
	return &Store{entries: append([]core.Entry(nil), seed...)}
}

// FailReads toggles snapshot read failures.
func (s *Store) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

// ReadAll returns a copy of the full entry collection.
func (s *Store) ReadAll(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, fmt.Errorf("snapshot read failed")
	}
	return append([]core.Entry(nil), s.entries...), nil
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// AppendBatch appends entries one by one, mirroring the remote store's lack
// of multi-write atomicity.
func (s *Store) AppendBatch(ctx context.Context, entries []core.Entry) (int, error) {
	for i, e := range entries {
		if _, err := s.Append(ctx, e); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// Delete removes the first row matching the request in snapshot order.
func (s *Store) Delete(_ context.Context, req store.DeleteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if store.MatchesDelete(e, req) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrEntryNotFound
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
