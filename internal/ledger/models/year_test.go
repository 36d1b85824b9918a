package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
)

func TestNewYear(t *testing.T) {
	now := time.Now()

	t.Run("constructs open year", func(t *testing.T) {
		y, err := NewYear(id.NewYearID(), 2025, now)
		require.NoError(t, err)
		assert.Equal(t, 2025, y.Number)
		assert.Equal(t, YearStatusOpen, y.Status)
		assert.Nil(t, y.ClosedAt)
		assert.True(t, y.IsOpen())
	})

	t.Run("accepts minimum year", func(t *testing.T) {
		_, err := NewYear(id.NewYearID(), MinYearNumber, now)
		require.NoError(t, err)
	})

	t.Run("rejects year before minimum", func(t *testing.T) {
		_, err := NewYear(id.NewYearID(), 2019, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestYearStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, YearStatusOpen.CanTransitionTo(YearStatusClosed))
	assert.False(t, YearStatusClosed.CanTransitionTo(YearStatusOpen))
	assert.False(t, YearStatusClosed.CanTransitionTo(YearStatusClosed))
	assert.False(t, YearStatusOpen.CanTransitionTo(YearStatusOpen))
}

func TestYear_Close(t *testing.T) {
	now := time.Now()

	t.Run("closes an open year", func(t *testing.T) {
		y, err := NewYear(id.NewYearID(), 2025, now)
		require.NoError(t, err)

		closedAt := now.Add(time.Hour)
		require.NoError(t, y.Close(closedAt))

		assert.Equal(t, YearStatusClosed, y.Status)
		require.NotNil(t, y.ClosedAt)
		assert.True(t, y.ClosedAt.Equal(closedAt))
		assert.False(t, y.IsOpen())
	})

	t.Run("rejects closing twice", func(t *testing.T) {
		y, err := NewYear(id.NewYearID(), 2025, now)
		require.NoError(t, err)
		require.NoError(t, y.Close(now))

		err = y.Close(now.Add(time.Minute))
		require.ErrorIs(t, err, ErrYearAlreadyClosed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

// The two closed-year errors share an HTTP status but must stay
// distinguishable for callers branching on the cause.
func TestClosedYearErrors_Distinguishable(t *testing.T) {
	assert.NotErrorIs(t, ErrYearClosed, ErrYearAlreadyClosed)
	assert.NotErrorIs(t, ErrYearAlreadyClosed, ErrYearClosed)
	assert.True(t, dErrors.HasCode(ErrYearClosed, dErrors.CodeConflict))
	assert.True(t, dErrors.HasCode(ErrYearAlreadyClosed, dErrors.CodeConflict))
}
