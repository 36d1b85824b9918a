// Package entry provides the asset-entry store in memory and postgres flavors.
package entry

import (
	"context"
	"sync"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
	"mizan/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for unit tests and dev mode.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.EntryID]*models.Entry
}

// NewInMemory constructs an empty in-memory entry store.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[id.EntryID]*models.Entry)}
}

func cloneEntry(e *models.Entry) *models.Entry {
	c := *e
	return &c
}

// Create inserts a new entry.
func (s *InMemory) Create(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = cloneEntry(e)
	return nil
}

// FindByID returns the entry or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, entryID id.EntryID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneEntry(e), nil
}

// Update overwrites an existing entry.
func (s *InMemory) Update(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.entries[e.ID] = cloneEntry(e)
	return nil
}

// Delete removes an entry.
func (s *InMemory) Delete(_ context.Context, entryID id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entryID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, entryID)
	return nil
}

// ListByYear returns the year's entries. Order is stable within one read
// only by virtue of the copy; no global ordering is guaranteed.
func (s *InMemory) ListByYear(_ context.Context, yearID id.YearID) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Entry
	for _, e := range s.entries {
		if e.YearID == yearID {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}

// TotalByYear sums the year's entry amounts in cents. Empty set sums to zero.
func (s *InMemory) TotalByYear(_ context.Context, yearID id.YearID) (money.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		if e.YearID == yearID {
			total += e.Amount.Cents
		}
	}
	return money.FromCents(total), nil
}
