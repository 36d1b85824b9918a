package handler

import (
	"time"

	"mizan/internal/ledger/models"
	"mizan/pkg/money"
)

// YearResponse is the HTTP representation of a ledger year.
type YearResponse struct {
	ID        string     `json:"id"`
	Year      int        `json:"year"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// YearDetailResponse adds both ledgers to the year representation.
type YearDetailResponse struct {
	YearResponse
	Entries     []EntryResponse     `json:"entries"`
	PaidEntries []PaidEntryResponse `json:"paid_entries"`
}

// EntryResponse is the HTTP representation of an asset entry.
type EntryResponse struct {
	ID        string       `json:"id"`
	YearID    string       `json:"year_id"`
	Name      string       `json:"name"`
	AssetType string       `json:"asset_type"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PaidEntryResponse is the HTTP representation of a payment.
type PaidEntryResponse struct {
	ID        string       `json:"id"`
	YearID    string       `json:"year_id"`
	Name      string       `json:"name"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SummaryResponse carries the computed figures as decimal strings.
type SummaryResponse struct {
	TotalAssets money.Amount `json:"total_assets"`
	ZakatDue    money.Amount `json:"zakat_due"`
	TotalPaid   money.Amount `json:"total_paid"`
	Remaining   money.Amount `json:"remaining"`
}

// OverviewItemResponse is one row of GET /years/summary.
type OverviewItemResponse struct {
	ID       string     `json:"id"`
	Year     int        `json:"year"`
	Status   string     `json:"status"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	SummaryResponse
}

// CopyEntriesResponse reports how many entries a copy produced.
type CopyEntriesResponse struct {
	Count int `json:"count"`
}

func fromYear(y *models.Year) YearResponse {
	return YearResponse{
		ID:        y.ID.String(),
		Year:      y.Number,
		Status:    string(y.Status),
		ClosedAt:  y.ClosedAt,
		CreatedAt: y.CreatedAt,
		UpdatedAt: y.UpdatedAt,
	}
}

func fromEntry(e *models.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID.String(),
		YearID:    e.YearID.String(),
		Name:      e.Name,
		AssetType: string(e.AssetType),
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func fromEntries(entries []*models.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromEntry(e))
	}
	return out
}

func fromPaidEntry(p *models.PaidEntry) PaidEntryResponse {
	return PaidEntryResponse{
		ID:        p.ID.String(),
		YearID:    p.YearID.String(),
		Name:      p.Name,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromPaidEntries(payments []*models.PaidEntry) []PaidEntryResponse {
	out := make([]PaidEntryResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, fromPaidEntry(p))
	}
	return out
}

func fromSummary(s models.Summary) SummaryResponse {
	return SummaryResponse{
		TotalAssets: s.TotalAssets,
		ZakatDue:    s.ZakatDue,
		TotalPaid:   s.TotalPaid,
		Remaining:   s.Remaining,
	}
}

func fromOverview(rows []models.YearSummary) []OverviewItemResponse {
	out := make([]OverviewItemResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, OverviewItemResponse{
			ID:              row.ID.String(),
			Year:            row.Year,
			Status:          string(row.Status),
			ClosedAt:        row.ClosedAt,
			SummaryResponse: fromSummary(row.Summary),
		})
	}
	return out
}
