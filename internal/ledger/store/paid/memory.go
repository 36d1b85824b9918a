// Package paid provides the paid-entry store in memory and postgres flavors.
package paid

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
	entries map[id.PaidEntryID]*models.PaidEntry
}

// NewInMemory constructs an empty in-memory paid-entry store.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[id.PaidEntryID]*models.PaidEntry)}
}

func clonePaid(p *models.PaidEntry) *models.PaidEntry {
	c := *p
	return &c
}

// Create inserts a new paid entry.
func (s *InMemory) Create(_ context.Context, p *models.PaidEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.ID] = clonePaid(p)
	return nil
}

// FindByID returns the paid entry or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, paidID id.PaidEntryID) (*models.PaidEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[paidID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clonePaid(p), nil
}

// Update overwrites an existing paid entry.
func (s *InMemory) Update(_ context.Context, p *models.PaidEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.entries[p.ID] = clonePaid(p)
	return nil
}

// Delete removes a paid entry.
func (s *InMemory) Delete(_ context.Context, paidID id.PaidEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[paidID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, paidID)
	return nil
}

// ListByYear returns the year's paid entries.
func (s *InMemory) ListByYear(_ context.Context, yearID id.YearID) ([]*models.PaidEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.PaidEntry
	for _, p := range s.entries {
		if p.YearID == yearID {
			out = append(out, clonePaid(p))
		}
	}
	return out, nil
}

// TotalByYear sums the year's paid amounts in cents. Empty set sums to zero.
func (s *InMemory) TotalByYear(_ context.Context, yearID id.YearID) (money.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, p := range s.entries {
		if p.YearID == yearID {
			total += p.Amount.Cents
		}
	}
	return money.FromCents(total), nil
}
