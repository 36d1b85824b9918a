package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mizan/internal/ledger/models"
	"mizan/internal/ledger/service"
	entrystore "mizan/internal/ledger/store/entry"
	paidstore "mizan/internal/ledger/store/paid"
	yearstore "mizan/internal/ledger/store/year"
	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/money"
	"mizan/pkg/requestcontext"
)

func newService(opts ...service.Option) *service.Service {
	return service.New(
		yearstore.NewInMemory(),
		entrystore.NewInMemory(),
		paidstore.NewInMemory(),
		opts...,
	)
}

func mustAmount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.Parse(s)
	require.NoError(t, err)
	return a
}

func TestGetOrCreateYear(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an open year on first request", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, 2025, y.Number)
		assert.Equal(t, models.YearStatusOpen, y.Status)
		assert.Nil(t, y.ClosedAt)
	})

	t.Run("is idempotent for the same number", func(t *testing.T) {
		svc := newService()
		first, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		second, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("returns the existing year even when closed", func(t *testing.T) {
		svc := newService()
		created, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, created.ID)
		require.NoError(t, err)

		again, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.Equal(t, models.YearStatusClosed, again.Status)
	})

	t.Run("rejects years before 2020", func(t *testing.T) {
		svc := newService()
		_, err := svc.GetOrCreateYear(ctx, 2019)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("concurrent callers all get the same year", func(t *testing.T) {
		svc := newService()

		const goroutines = 25
		ids := make([]id.YearID, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				y, err := svc.GetOrCreateYear(ctx, 2030)
				if err == nil {
					ids[i] = y.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 1; i < goroutines; i++ {
			assert.Equal(t, ids[0], ids[i])
		}
		assert.False(t, ids[0].IsZero())
	})
}

func TestGetYear(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.GetOrCreateYear(ctx, 2025)
	require.NoError(t, err)

	found, err := svc.GetYear(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetYear(ctx, id.NewYearID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.GetYear(ctx, id.YearID{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestListYears(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	years, err := svc.ListYears(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)

	for _, n := range []int{2023, 2025, 2024} {
		_, err := svc.GetOrCreateYear(ctx, n)
		require.NoError(t, err)
	}

	years, err = svc.ListYears(ctx)
	require.NoError(t, err)
	require.Len(t, years, 3)
	assert.Equal(t, 2025, years[0].Number)
	assert.Equal(t, 2024, years[1].Number)
	assert.Equal(t, 2023, years[2].Number)
}

func TestCloseYear(t *testing.T) {
	ctx := context.Background()

	t.Run("closes an open year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		closed, err := svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, models.YearStatusClosed, closed.Status)
		require.NotNil(t, closed.ClosedAt)
	})

	t.Run("second close reports already closed", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)

		_, err = svc.CloseYear(ctx, y.ID)
		require.ErrorIs(t, err, models.ErrYearAlreadyClosed)
		assert.NotErrorIs(t, err, models.ErrYearClosed)
	})

	t.Run("unknown year is not found", func(t *testing.T) {
		svc := newService()
		_, err := svc.CloseYear(ctx, id.NewYearID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAddEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("records an entry on an open year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		e, err := svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)
		assert.Equal(t, y.ID, e.YearID)
		assert.Equal(t, int64(1000000), e.Amount.Cents)

		entries, err := svc.ListEntries(ctx, y.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
	})

	t.Run("rejects mutation of a closed year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)

		_, err = svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.ErrorIs(t, err, models.ErrYearClosed)
	})

	t.Run("unknown year is not found", func(t *testing.T) {
		svc := newService()
		_, err := svc.AddEntry(ctx, id.NewYearID(), "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("invalid name surfaces as validation error", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		_, err = svc.AddEntry(ctx, y.ID, "x", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields on an open year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		e, err := svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)

		updated, err := svc.UpdateEntry(ctx, e.ID, "Bonus", models.AssetTypeOther, mustAmount(t, "500"))
		require.NoError(t, err)
		assert.Equal(t, e.ID, updated.ID)
		assert.Equal(t, "Bonus", updated.Name)
		assert.Equal(t, models.AssetTypeOther, updated.AssetType)
		assert.Equal(t, int64(50000), updated.Amount.Cents)
	})

	t.Run("rejects update after close", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		e, err := svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)

		_, err = svc.UpdateEntry(ctx, e.ID, "Bonus", models.AssetTypeOther, mustAmount(t, "500"))
		require.ErrorIs(t, err, models.ErrYearClosed)

		err = svc.DeleteEntry(ctx, e.ID)
		require.ErrorIs(t, err, models.ErrYearClosed)
	})

	t.Run("deletes on an open year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		e, err := svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteEntry(ctx, e.ID))

		entries, err := svc.ListEntries(ctx, y.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		svc := newService()
		_, err := svc.UpdateEntry(ctx, id.NewEntryID(), "Bonus", models.AssetTypeOther, mustAmount(t, "500"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		err = svc.DeleteEntry(ctx, id.NewEntryID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("full lifecycle on an open year", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		p, err := svc.AddPayment(ctx, y.ID, "First installment", mustAmount(t, "100"))
		require.NoError(t, err)
		assert.Equal(t, int64(10000), p.Amount.Cents)

		updated, err := svc.UpdatePayment(ctx, p.ID, "Corrected installment", mustAmount(t, "150"))
		require.NoError(t, err)
		assert.Equal(t, int64(15000), updated.Amount.Cents)

		require.NoError(t, svc.DeletePayment(ctx, p.ID))

		payments, err := svc.ListPayments(ctx, y.ID)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("closed year rejects payment mutations", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		p, err := svc.AddPayment(ctx, y.ID, "First installment", mustAmount(t, "100"))
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)

		_, err = svc.AddPayment(ctx, y.ID, "Late payment", mustAmount(t, "50"))
		require.ErrorIs(t, err, models.ErrYearClosed)
		_, err = svc.UpdatePayment(ctx, p.ID, "Rename", mustAmount(t, "50"))
		require.ErrorIs(t, err, models.ErrYearClosed)
		require.ErrorIs(t, svc.DeletePayment(ctx, p.ID), models.ErrYearClosed)
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the documented figures", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		_, err = svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)
		_, err = svc.AddEntry(ctx, y.ID, "Gold bars", models.AssetTypeGold, mustAmount(t, "2000"))
		require.NoError(t, err)
		_, err = svc.AddPayment(ctx, y.ID, "First installment", mustAmount(t, "100"))
		require.NoError(t, err)

		s, err := svc.Summarize(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, "12000.00", s.TotalAssets.String())
		assert.Equal(t, "300.00", s.ZakatDue.String())
		assert.Equal(t, "100.00", s.TotalPaid.String())
		assert.Equal(t, "200.00", s.Remaining.String())
	})

	t.Run("empty year sums to zero", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		s, err := svc.Summarize(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, "0.00", s.TotalAssets.String())
		assert.Equal(t, "0.00", s.ZakatDue.String())
		assert.Equal(t, "0.00", s.Remaining.String())
	})

	t.Run("overpayment drives remaining negative", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		_, err = svc.AddEntry(ctx, y.ID, "Savings", models.AssetTypeSavings, mustAmount(t, "1000"))
		require.NoError(t, err)
		_, err = svc.AddPayment(ctx, y.ID, "Generous payment", mustAmount(t, "100"))
		require.NoError(t, err)

		s, err := svc.Summarize(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, "25.00", s.ZakatDue.String())
		assert.Equal(t, "-75.00", s.Remaining.String())
		assert.True(t, s.Remaining.IsNegative())
	})

	t.Run("unknown year is not found", func(t *testing.T) {
		svc := newService()
		_, err := svc.Summarize(ctx, id.NewYearID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("closed years still summarize", func(t *testing.T) {
		svc := newService()
		y, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		_, err = svc.AddEntry(ctx, y.ID, "Savings", models.AssetTypeSavings, mustAmount(t, "4000"))
		require.NoError(t, err)
		_, err = svc.CloseYear(ctx, y.ID)
		require.NoError(t, err)

		s, err := svc.Summarize(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, "100.00", s.ZakatDue.String())
	})
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	y2023, err := svc.GetOrCreateYear(ctx, 2023)
	require.NoError(t, err)
	y2025, err := svc.GetOrCreateYear(ctx, 2025)
	require.NoError(t, err)
	_, err = svc.GetOrCreateYear(ctx, 2024)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, y2025.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "12000"))
	require.NoError(t, err)
	_, err = svc.CloseYear(ctx, y2023.ID)
	require.NoError(t, err)

	rows, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2025, rows[0].Year)
	assert.Equal(t, 2024, rows[1].Year)
	assert.Equal(t, 2023, rows[2].Year)

	assert.Equal(t, "12000.00", rows[0].TotalAssets.String())
	assert.Equal(t, "300.00", rows[0].ZakatDue.String())
	assert.Equal(t, models.YearStatusClosed, rows[2].Status)
	assert.NotNil(t, rows[2].ClosedAt)
}

func TestCopyEntries(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*service.Service, *models.Year, *models.Year) {
		t.Helper()
		svc := newService()
		source, err := svc.GetOrCreateYear(ctx, 2024)
		require.NoError(t, err)
		target, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)
		_, err = svc.AddEntry(ctx, source.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
		require.NoError(t, err)
		_, err = svc.AddEntry(ctx, source.ID, "Gold bars", models.AssetTypeGold, mustAmount(t, "2000"))
		require.NoError(t, err)
		return svc, source, target
	}

	t.Run("copies all entries with fresh identities", func(t *testing.T) {
		svc, source, target := seed(t)

		count, err := svc.CopyEntries(ctx, source.ID, target.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		sourceEntries, err := svc.ListEntries(ctx, source.ID)
		require.NoError(t, err)
		targetEntries, err := svc.ListEntries(ctx, target.ID)
		require.NoError(t, err)
		require.Len(t, targetEntries, 2)

		// Listing order is not guaranteed; pair the copies by name.
		sort.Slice(sourceEntries, func(i, j int) bool { return sourceEntries[i].Name < sourceEntries[j].Name })
		sort.Slice(targetEntries, func(i, j int) bool { return targetEntries[i].Name < targetEntries[j].Name })

		for i, copied := range targetEntries {
			assert.NotEqual(t, sourceEntries[i].ID, copied.ID)
			assert.Equal(t, target.ID, copied.YearID)
			assert.Equal(t, sourceEntries[i].Name, copied.Name)
			assert.Equal(t, sourceEntries[i].AssetType, copied.AssetType)
			assert.Equal(t, sourceEntries[i].Amount, copied.Amount)
		}
	})

	t.Run("payments are never copied", func(t *testing.T) {
		svc, source, target := seed(t)
		_, err := svc.AddPayment(ctx, source.ID, "Old payment", mustAmount(t, "100"))
		require.NoError(t, err)

		_, err = svc.CopyEntries(ctx, source.ID, target.ID)
		require.NoError(t, err)

		payments, err := svc.ListPayments(ctx, target.ID)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("appends to existing target entries", func(t *testing.T) {
		svc, source, target := seed(t)
		_, err := svc.AddEntry(ctx, target.ID, "Existing asset", models.AssetTypeSavings, mustAmount(t, "500"))
		require.NoError(t, err)

		count, err := svc.CopyEntries(ctx, source.ID, target.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		targetEntries, err := svc.ListEntries(ctx, target.ID)
		require.NoError(t, err)
		assert.Len(t, targetEntries, 3)
	})

	t.Run("empty source copies zero entries", func(t *testing.T) {
		svc := newService()
		source, err := svc.GetOrCreateYear(ctx, 2024)
		require.NoError(t, err)
		target, err := svc.GetOrCreateYear(ctx, 2025)
		require.NoError(t, err)

		count, err := svc.CopyEntries(ctx, source.ID, target.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("self copy is rejected", func(t *testing.T) {
		svc, source, _ := seed(t)
		_, err := svc.CopyEntries(ctx, source.ID, source.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("missing source or target is not found", func(t *testing.T) {
		svc, source, target := seed(t)

		_, err := svc.CopyEntries(ctx, id.NewYearID(), target.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		_, err = svc.CopyEntries(ctx, source.ID, id.NewYearID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("closed target is rejected and untouched", func(t *testing.T) {
		svc, source, target := seed(t)
		_, err := svc.CloseYear(ctx, target.ID)
		require.NoError(t, err)

		_, err = svc.CopyEntries(ctx, source.ID, target.ID)
		require.ErrorIs(t, err, models.ErrYearClosed)

		targetEntries, err := svc.ListEntries(ctx, target.ID)
		require.NoError(t, err)
		assert.Empty(t, targetEntries)
	})

	t.Run("closed source still copies", func(t *testing.T) {
		svc, source, target := seed(t)
		_, err := svc.CloseYear(ctx, source.ID)
		require.NoError(t, err)

		count, err := svc.CopyEntries(ctx, source.ID, target.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

// recordingCache observes service cache traffic.
type recordingCache struct {
	mu          sync.Mutex
	summaries   map[id.YearID]models.Summary
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{summaries: make(map[id.YearID]models.Summary)}
}

func (c *recordingCache) GetSummary(_ context.Context, yearID id.YearID) (models.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.summaries[yearID]
	return s, ok
}

func (c *recordingCache) SetSummary(_ context.Context, yearID id.YearID, s models.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[yearID] = s
}

func (c *recordingCache) GetOverview(context.Context) ([]models.YearSummary, bool) { return nil, false }

func (c *recordingCache) SetOverview(context.Context, []models.YearSummary) {}

func (c *recordingCache) Invalidate(_ context.Context, yearID id.YearID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, yearID)
	c.invalidated++
}

func TestSummaryCacheInteraction(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	svc := newService(service.WithCache(cache))

	y, err := svc.GetOrCreateYear(ctx, 2025)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, y.ID, "Salary", models.AssetTypeIncome, mustAmount(t, "10000"))
	require.NoError(t, err)

	first, err := svc.Summarize(ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", first.ZakatDue.String())

	// A second read must come from the cache.
	cached, ok := cache.GetSummary(ctx, y.ID)
	require.True(t, ok)
	assert.Equal(t, first, cached)

	// A mutation invalidates, and the next read reflects the new state.
	_, err = svc.AddEntry(ctx, y.ID, "Gold bars", models.AssetTypeGold, mustAmount(t, "2000"))
	require.NoError(t, err)
	_, ok = cache.GetSummary(ctx, y.ID)
	assert.False(t, ok, "mutation must invalidate the cached summary")

	second, err := svc.Summarize(ctx, y.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", second.ZakatDue.String())
}

func TestRequestScopedTimeFlowsToTimestamps(t *testing.T) {
	svc := newService()
	pinned := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), pinned)

	y, err := svc.GetOrCreateYear(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, y.CreatedAt.Equal(pinned))

	closed, err := svc.CloseYear(ctx, y.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	assert.True(t, closed.ClosedAt.Equal(pinned))
}
