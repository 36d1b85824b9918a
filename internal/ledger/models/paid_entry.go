package models

import (
	"strings"
	"time"

	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/money"
)

// PaidEntry is a recorded cash payment made toward a year's zakat due.
// Unlike Entry it carries no asset classification.
type PaidEntry struct {
	ID        id.PaidEntryID `json:"id"`
	YearID    id.YearID      `json:"year_id"`
	Name      string         `json:"name"`
	Amount    money.Amount   `json:"amount"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewPaidEntry constructs a validated paid entry.
func NewPaidEntry(paidID id.PaidEntryID, yearID id.YearID, name string, amount money.Amount, now time.Time) (*PaidEntry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "amount must not be negative")
	}
	return &PaidEntry{
		ID:        paidID,
		YearID:    yearID,
		Name:      strings.TrimSpace(name),
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
