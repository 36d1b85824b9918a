package models

import (
	"time"

	id "mizan/pkg/domain"
	"mizan/pkg/money"
)

// Summary holds the computed figures for a single year.
// Remaining is zakat due minus payments and may go negative when a
// year is overpaid.
type Summary struct {
	TotalAssets money.Amount `json:"total_assets"`
	ZakatDue    money.Amount `json:"zakat_due"`
	TotalPaid   money.Amount `json:"total_paid"`
	Remaining   money.Amount `json:"remaining"`
}

// NewSummary computes the derived figures from the two ledger totals.
func NewSummary(totalAssets, totalPaid money.Amount) Summary {
	due := money.ZakatDue(totalAssets)
	return Summary{
		TotalAssets: totalAssets,
		ZakatDue:    due,
		TotalPaid:   totalPaid,
		Remaining:   due.Sub(totalPaid),
	}
}

// YearSummary is one row of the cross-year overview listing.
type YearSummary struct {
	ID       id.YearID  `json:"id"`
	Year     int        `json:"year"`
	Status   YearStatus `json:"status"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	Summary
}
