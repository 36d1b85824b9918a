package service

import (
	"context"
	"errors"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/money"
	"mizan/pkg/platform/sentinel"
	"mizan/pkg/requestcontext"
)

// requireOpenYear locks the year for the surrounding transaction and
// rejects the mutation when it is missing or closed. The lock serializes
// ledger writes against a concurrent CloseYear on the same year.
func (s *Service) requireOpenYear(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	year, err := s.years.FindByIDForUpdate(ctx, yearID)
	if err != nil {
		return nil, wrapYearErr(err)
	}
	if !year.IsOpen() {
		return nil, models.ErrYearClosed
	}
	return year, nil
}

// AddEntry records an asset entry on an open year.
func (s *Service) AddEntry(ctx context.Context, yearID id.YearID, name string, assetType models.AssetType, amount money.Amount) (*models.Entry, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.AddEntry")
	defer span.End()

	if err := requireYearID(yearID); err != nil {
		return nil, err
	}

	var entry *models.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.requireOpenYear(txCtx, yearID); err != nil {
			return err
		}

		e, err := models.NewEntry(id.NewEntryID(), yearID, name, assetType, amount, requestcontext.Now(txCtx))
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}

		if err := s.entries.Create(txCtx, e); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create entry")
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, yearID)
	s.logInfo(ctx, "entry created",
		"entry_id", entry.ID.String(),
		"year_id", yearID.String(),
		"asset_type", string(entry.AssetType),
		"request_id", requestcontext.RequestID(ctx),
	)
	return entry, nil
}

// UpdateEntry replaces the mutable fields of an existing entry. The
// owning year must still be open.
func (s *Service) UpdateEntry(ctx context.Context, entryID id.EntryID, name string, assetType models.AssetType, amount money.Amount) (*models.Entry, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.UpdateEntry")
	defer span.End()

	if entryID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entry id is required")
	}

	var entry *models.Entry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.entries.FindByID(txCtx, entryID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
		}

		if _, err := s.requireOpenYear(txCtx, e.YearID); err != nil {
			return err
		}

		updated, err := models.NewEntry(e.ID, e.YearID, name, assetType, amount, e.CreatedAt)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}
		updated.UpdatedAt = requestcontext.Now(txCtx)

		if err := s.entries.Update(txCtx, updated); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update entry")
		}
		entry = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, entry.YearID)
	s.logInfo(ctx, "entry updated",
		"entry_id", entry.ID.String(),
		"year_id", entry.YearID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return entry, nil
}

// DeleteEntry removes an entry from an open year.
func (s *Service) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	ctx, span := s.tracer.Start(ctx, "ledger.DeleteEntry")
	defer span.End()

	if entryID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "entry id is required")
	}

	var yearID id.YearID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.entries.FindByID(txCtx, entryID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
		}

		if _, err := s.requireOpenYear(txCtx, e.YearID); err != nil {
			return err
		}

		if err := s.entries.Delete(txCtx, entryID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete entry")
		}
		yearID = e.YearID
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateSummaries(ctx, yearID)
	s.logInfo(ctx, "entry deleted",
		"entry_id", entryID.String(),
		"year_id", yearID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ListEntries returns the asset entries of a year in insertion order.
func (s *Service) ListEntries(ctx context.Context, yearID id.YearID) ([]*models.Entry, error) {
	if err := requireYearID(yearID); err != nil {
		return nil, err
	}
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		return nil, wrapYearErr(err)
	}
	entries, err := s.entries.ListByYear(ctx, yearID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
	}
	return entries, nil
}
