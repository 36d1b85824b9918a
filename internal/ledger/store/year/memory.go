// Package year provides the year store in memory and postgres flavors.
// Both enforce the same contract: year numbers are unique, and the close
// transition is a compare-and-swap so concurrent closers resolve to exactly
// one success.
package year

import (
	"context"
	"sort"
	"sync"
	"time"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for unit tests and dev mode.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.YearID]*models.Year
	byYear map[int]id.YearID
}

// NewInMemory constructs an empty in-memory year store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.YearID]*models.Year),
		byYear: make(map[int]id.YearID),
	}
}

func cloneYear(y *models.Year) *models.Year {
	c := *y
	if y.ClosedAt != nil {
		t := *y.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

// CreateIfNumberAvailable inserts the year unless its number is taken.
// The check and insert happen under one lock, mirroring the DB unique
// constraint, so a racing duplicate observes sentinel.ErrAlreadyUsed.
func (s *InMemory) CreateIfNumberAvailable(_ context.Context, y *models.Year) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byYear[y.Number]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[y.ID] = cloneYear(y)
	s.byYear[y.Number] = y.ID
	return nil
}

// FindByID returns the year or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, yearID id.YearID) (*models.Year, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	y, ok := s.byID[yearID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneYear(y), nil
}

// FindByIDForUpdate behaves like FindByID. In memory the coarse transaction
// lock (service StoreTx) provides the exclusion that FOR UPDATE gives the
// postgres store.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	return s.FindByID(ctx, yearID)
}

// FindByNumber returns the year for a calendar year number.
func (s *InMemory) FindByNumber(_ context.Context, number int) (*models.Year, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	yearID, ok := s.byYear[number]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneYear(s.byID[yearID]), nil
}

// List returns all years ordered by year number descending.
func (s *InMemory) List(_ context.Context) ([]*models.Year, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	years := make([]*models.Year, 0, len(s.byID))
	for _, y := range s.byID {
		years = append(years, cloneYear(y))
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Number > years[j].Number })
	return years, nil
}

// Close performs the OPEN -> CLOSED compare-and-swap. The status check and
// the mutation happen under one lock, so of two concurrent closers exactly
// one succeeds and the other gets sentinel.ErrInvalidState.
func (s *InMemory) Close(_ context.Context, yearID id.YearID, closedAt time.Time) (*models.Year, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, ok := s.byID[yearID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if y.Status != models.YearStatusOpen {
		return nil, sentinel.ErrInvalidState
	}
	y.ApplyClose(closedAt)
	return cloneYear(y), nil
}
