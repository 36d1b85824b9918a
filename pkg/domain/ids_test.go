package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mizan/pkg/domain-errors"
)

// TestParseYearID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseYearID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseYearID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed UUID", func(t *testing.T) {
		_, err := ParseYearID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseYearID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.NewString()
		yearID, err := ParseYearID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, yearID.String())
	})
}

func TestParseEntryID_Invariants(t *testing.T) {
	_, err := ParseEntryID("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	raw := uuid.NewString()
	entryID, err := ParseEntryID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, entryID.String())
}

func TestParsePaidEntryID_Invariants(t *testing.T) {
	_, err := ParsePaidEntryID(uuid.Nil.String())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	raw := uuid.NewString()
	paidID, err := ParsePaidEntryID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, paidID.String())
}

func TestIDs_NewAndIsZero(t *testing.T) {
	assert.False(t, NewYearID().IsZero())
	assert.False(t, NewEntryID().IsZero())
	assert.False(t, NewPaidEntryID().IsZero())

	assert.True(t, YearID{}.IsZero())
	assert.True(t, EntryID{}.IsZero())
	assert.True(t, PaidEntryID{}.IsZero())
}

// Defined types do not inherit uuid.UUID's TextMarshaler, so the JSON
// round-trip is worth pinning down.
func TestIDs_JSONRoundTrip(t *testing.T) {
	yearID := NewYearID()

	raw, err := json.Marshal(yearID)
	require.NoError(t, err)
	assert.Equal(t, `"`+yearID.String()+`"`, string(raw))

	var decoded YearID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, yearID, decoded)
}
