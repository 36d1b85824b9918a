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

// CopyEntries duplicates every asset entry of the source year into the
// target year as fresh entries. All-or-nothing: the copies land in one
// transaction, and the target year is locked for its duration so a
// concurrent close cannot slip between the status check and the writes.
// Payments are never copied.
func (s *Service) CopyEntries(ctx context.Context, sourceID, targetID id.YearID) (int, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CopyEntries")
	defer span.End()

	if err := requireYearID(sourceID); err != nil {
		return 0, err
	}
	if err := requireYearID(targetID); err != nil {
		return 0, err
	}
	if sourceID == targetID {
		return 0, dErrors.New(dErrors.CodeBadRequest, "source and target year must differ")
	}

	var count int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.years.FindByID(txCtx, sourceID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "source year not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
		}

		target, err := s.years.FindByIDForUpdate(txCtx, targetID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "target year not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "year store failure")
		}
		if !target.IsOpen() {
			return dErrors.Wrap(models.ErrYearClosed, dErrors.CodeConflict, "target year is closed")
		}

		srcEntries, err := s.entries.ListByYear(txCtx, sourceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "entry store failure")
		}

		now := requestcontext.Now(txCtx)
		for _, e := range srcEntries {
			if err := s.entries.Create(txCtx, e.CopyTo(targetID, now)); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to copy entry")
			}
		}
		count = len(srcEntries)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.AddEntriesCopied(count)
	}
	s.invalidateSummaries(ctx, targetID)
	s.logInfo(ctx, "entries copied",
		"source_year_id", sourceID.String(),
		"target_year_id", targetID.String(),
		"count", count,
		"request_id", requestcontext.RequestID(ctx),
	)
	return count, nil
}
