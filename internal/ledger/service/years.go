package service

import (
	"context"
	"errors"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/platform/sentinel"
	"mizan/pkg/requestcontext"
)

func requireYearID(yearID id.YearID) error {
	if yearID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "year id is required")
	}
	return nil
}

// wrapYearErr translates store sentinels to coded domain errors.
func wrapYearErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "year not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
}

// GetOrCreateYear returns the year with the given calendar number,
// creating it in OPEN status on first request. Idempotent: concurrent
// callers racing on the same number all receive the same year.
func (s *Service) GetOrCreateYear(ctx context.Context, number int) (*models.Year, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.GetOrCreateYear")
	defer span.End()

	if number < models.MinYearNumber {
		return nil, dErrors.New(dErrors.CodeValidation, "year must be 2020 or later")
	}

	existing, err := s.years.FindByNumber(ctx, number)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
	}

	year, err := models.NewYear(id.NewYearID(), number, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.years.CreateIfNumberAvailable(ctx, year); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			// Lost the race; the winner's row is the canonical one.
			winner, ferr := s.years.FindByNumber(ctx, number)
			if ferr != nil {
				return nil, dErrors.Wrap(ferr, dErrors.CodeInternal, "year store failure")
			}
			return winner, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create year")
	}

	if s.metrics != nil {
		s.metrics.IncrementYearsCreated()
	}
	s.logInfo(ctx, "year created",
		"year_id", year.ID.String(),
		"year", year.Number,
		"request_id", requestcontext.RequestID(ctx),
	)
	return year, nil
}

// GetYear retrieves a year by its identifier.
func (s *Service) GetYear(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	if err := requireYearID(yearID); err != nil {
		return nil, err
	}
	year, err := s.years.FindByID(ctx, yearID)
	if err != nil {
		return nil, wrapYearErr(err)
	}
	return year, nil
}

// ListYears returns all years, most recent calendar number first.
func (s *Service) ListYears(ctx context.Context) ([]*models.Year, error) {
	years, err := s.years.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
	}
	return years, nil
}

// CloseYear transitions a year from OPEN to CLOSED. The store performs
// the transition as a compare-and-set, so exactly one of any set of
// concurrent close attempts succeeds; the rest observe the closed state.
func (s *Service) CloseYear(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CloseYear")
	defer span.End()

	if err := requireYearID(yearID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var year *models.Year
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		y, err := s.years.Close(txCtx, yearID, now)
		if err != nil {
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "year not found")
			case errors.Is(err, sentinel.ErrInvalidState):
				return models.ErrYearAlreadyClosed
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to close year")
			}
		}
		year = y
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementYearsClosed()
	}
	s.invalidateSummaries(ctx, yearID)
	s.logInfo(ctx, "year closed",
		"year_id", year.ID.String(),
		"year", year.Number,
		"request_id", requestcontext.RequestID(ctx),
	)
	return year, nil
}
