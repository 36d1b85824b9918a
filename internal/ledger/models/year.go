package models

import (
	"time"

	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
)

// YearStatus is the lifecycle state of a ledger year.
type YearStatus string

const (
	YearStatusOpen   YearStatus = "OPEN"
	YearStatusClosed YearStatus = "CLOSED"
)

// Valid reports whether the status is a recognized member of the enum.
func (s YearStatus) Valid() bool {
	switch s {
	case YearStatusOpen, YearStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo encodes the one-way state machine: OPEN -> CLOSED only.
// CLOSED is terminal; there is no reopening transition.
func (s YearStatus) CanTransitionTo(target YearStatus) bool {
	return s == YearStatusOpen && target == YearStatusClosed
}

// MinYearNumber is the earliest calendar year the ledger accepts.
const MinYearNumber = 2020

// Year is the aggregate root scoping one calendar year of the ledger.
//
// Invariants:
//   - Number is unique across all years (store-enforced) and >= MinYearNumber
//   - Status transitions only OPEN -> CLOSED; CLOSED is terminal
//   - ClosedAt is nil iff Status is OPEN, and immutable once set
//   - Entries and paid entries mutate only while the year is OPEN
type Year struct {
	ID        id.YearID  `json:"id"`
	Number    int        `json:"year"`
	Status    YearStatus `json:"status"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsOpen reports whether child collections may still be mutated.
func (y *Year) IsOpen() bool {
	return y.Status == YearStatusOpen
}

// ErrYearClosed is wrapped into every mutation rejected because the owning
// year is CLOSED, so callers can tell the gate from other conflicts.
var ErrYearClosed = dErrors.New(dErrors.CodeConflict, "year is closed")

// ErrYearAlreadyClosed is wrapped into a close attempt on an already-CLOSED
// year. Re-closing signals a caller state error and is reported, never
// silently accepted.
var ErrYearAlreadyClosed = dErrors.New(dErrors.CodeConflict, "year is already closed")

// CanClose checks whether the year may transition to CLOSED.
// Use with ApplyClose when the store's compare-and-swap needs the check and
// the mutation separated.
func (y *Year) CanClose() error {
	if !y.Status.CanTransitionTo(YearStatusClosed) {
		return ErrYearAlreadyClosed
	}
	return nil
}

// ApplyClose transitions the year to CLOSED. Call CanClose first.
func (y *Year) ApplyClose(now time.Time) {
	y.Status = YearStatusClosed
	y.ClosedAt = &now
	y.UpdatedAt = now
}

// Close validates and applies the transition in one call.
func (y *Year) Close(now time.Time) error {
	if err := y.CanClose(); err != nil {
		return err
	}
	y.ApplyClose(now)
	return nil
}

// NewYear constructs an OPEN year for the given calendar year number.
func NewYear(yearID id.YearID, number int, now time.Time) (*Year, error) {
	if number < MinYearNumber {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "year must be at least 2020")
	}
	return &Year{
		ID:        yearID,
		Number:    number,
		Status:    YearStatusOpen,
		ClosedAt:  nil,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
