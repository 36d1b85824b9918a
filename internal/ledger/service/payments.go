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

// AddPayment records a zakat payment against an open year.
func (s *Service) AddPayment(ctx context.Context, yearID id.YearID, name string, amount money.Amount) (*models.PaidEntry, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.AddPayment")
	defer span.End()

	if err := requireYearID(yearID); err != nil {
		return nil, err
	}

	var paid *models.PaidEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.requireOpenYear(txCtx, yearID); err != nil {
			return err
		}

		p, err := models.NewPaidEntry(id.NewPaidEntryID(), yearID, name, amount, requestcontext.Now(txCtx))
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}

		if err := s.payments.Create(txCtx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
		}
		paid = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, yearID)
	s.logInfo(ctx, "payment created",
		"paid_entry_id", paid.ID.String(),
		"year_id", yearID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return paid, nil
}

// UpdatePayment replaces the mutable fields of an existing payment.
func (s *Service) UpdatePayment(ctx context.Context, paidID id.PaidEntryID, name string, amount money.Amount) (*models.PaidEntry, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.UpdatePayment")
	defer span.End()

	if paidID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "paid entry id is required")
	}

	var paid *models.PaidEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.payments.FindByID(txCtx, paidID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "paid entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "paid entry store failure")
		}

		if _, err := s.requireOpenYear(txCtx, p.YearID); err != nil {
			return err
		}

		updated, err := models.NewPaidEntry(p.ID, p.YearID, name, amount, p.CreatedAt)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, err.Error())
			}
			return err
		}
		updated.UpdatedAt = requestcontext.Now(txCtx)

		if err := s.payments.Update(txCtx, updated); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "paid entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
		}
		paid = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, paid.YearID)
	s.logInfo(ctx, "payment updated",
		"paid_entry_id", paid.ID.String(),
		"year_id", paid.YearID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return paid, nil
}

// DeletePayment removes a payment from an open year.
func (s *Service) DeletePayment(ctx context.Context, paidID id.PaidEntryID) error {
	ctx, span := s.tracer.Start(ctx, "ledger.DeletePayment")
	defer span.End()

	if paidID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "paid entry id is required")
	}

	var yearID id.YearID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.payments.FindByID(txCtx, paidID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "paid entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "paid entry store failure")
		}

		if _, err := s.requireOpenYear(txCtx, p.YearID); err != nil {
			return err
		}

		if err := s.payments.Delete(txCtx, paidID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "paid entry not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete payment")
		}
		yearID = p.YearID
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateSummaries(ctx, yearID)
	s.logInfo(ctx, "payment deleted",
		"paid_entry_id", paidID.String(),
		"year_id", yearID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ListPayments returns the payments of a year in insertion order.
func (s *Service) ListPayments(ctx context.Context, yearID id.YearID) ([]*models.PaidEntry, error) {
	if err := requireYearID(yearID); err != nil {
		return nil, err
	}
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		return nil, wrapYearErr(err)
	}
	payments, err := s.payments.ListByYear(ctx, yearID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "paid entry store failure")
	}
	return payments, nil
}
