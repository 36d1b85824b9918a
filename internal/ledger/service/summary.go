package service

import (
	"context"
	"time"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
)

// Summarize computes the figures for a single year: total assets, the
// 2.5% zakat due, total paid, and the remaining balance. Remaining is
// always recomputed from the stored ledgers, never persisted, so it can
// never drift from the entries it is derived from.
func (s *Service) Summarize(ctx context.Context, yearID id.YearID) (models.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.Summarize")
	defer span.End()

	if err := requireYearID(yearID); err != nil {
		return models.Summary{}, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetSummary(ctx, yearID); ok {
			return cached, nil
		}
	}

	start := time.Now()
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		return models.Summary{}, wrapYearErr(err)
	}

	totalAssets, err := s.entries.TotalByYear(ctx, yearID)
	if err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
	}
	totalPaid, err := s.payments.TotalByYear(ctx, yearID)
	if err != nil {
		return models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "paid entry store failure")
	}

	summary := models.NewSummary(totalAssets, totalPaid)
	if s.metrics != nil {
		s.metrics.ObserveSummarize(start)
	}
	if s.cache != nil {
		s.cache.SetSummary(ctx, yearID, summary)
	}
	return summary, nil
}

// Overview returns one summary row per year, most recent calendar
// number first.
func (s *Service) Overview(ctx context.Context) ([]models.YearSummary, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.Overview")
	defer span.End()

	if s.cache != nil {
		if cached, ok := s.cache.GetOverview(ctx); ok {
			return cached, nil
		}
	}

	years, err := s.years.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
	}

	rows := make([]models.YearSummary, 0, len(years))
	for _, y := range years {
		totalAssets, err := s.entries.TotalByYear(ctx, y.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
		}
		totalPaid, err := s.payments.TotalByYear(ctx, y.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "paid entry store failure")
		}
		rows = append(rows, models.YearSummary{
			ID:       y.ID,
			Year:     y.Number,
			Status:   y.Status,
			ClosedAt: y.ClosedAt,
			Summary:  models.NewSummary(totalAssets, totalPaid),
		})
	}

	if s.cache != nil {
		s.cache.SetOverview(ctx, rows)
	}
	return rows, nil
}
