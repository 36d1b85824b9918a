// Package domain defines typed identifiers for ledger entities.
//
// IDs are distinct defined types over uuid.UUID so a YearID can never be
// passed where an EntryID is expected; the compiler enforces it. Parse
// functions sit at trust boundaries (HTTP path params) and fail closed:
// empty, malformed, and nil UUIDs are all rejected.
package domain

import (
	"github.com/google/uuid"

	dErrors "mizan/pkg/domain-errors"
)

type (
	// YearID identifies a ledger year.
	YearID uuid.UUID
	// EntryID identifies an asset entry.
	EntryID uuid.UUID
	// PaidEntryID identifies a payment entry.
	PaidEntryID uuid.UUID
)

// NewYearID returns a fresh random YearID.
func NewYearID() YearID { return YearID(uuid.New()) }

// NewEntryID returns a fresh random EntryID.
func NewEntryID() EntryID { return EntryID(uuid.New()) }

// NewPaidEntryID returns a fresh random PaidEntryID.
func NewPaidEntryID() PaidEntryID { return PaidEntryID(uuid.New()) }

func (id YearID) String() string      { return uuid.UUID(id).String() }
func (id EntryID) String() string     { return uuid.UUID(id).String() }
func (id PaidEntryID) String() string { return uuid.UUID(id).String() }

func (id YearID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PaidEntryID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText implementations keep the typed IDs rendering as canonical UUID
// strings in JSON; defined types do not inherit uuid.UUID's marshalling.

func (id YearID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id EntryID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id PaidEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *YearID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = YearID(u)
	return nil
}

func (id *EntryID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = EntryID(u)
	return nil
}

func (id *PaidEntryID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = PaidEntryID(u)
	return nil
}

// ParseYearID parses a year ID received at a trust boundary.
func ParseYearID(s string) (YearID, error) {
	u, err := parseUUID(s, "year id")
	return YearID(u), err
}

// ParseEntryID parses an entry ID received at a trust boundary.
func ParseEntryID(s string) (EntryID, error) {
	u, err := parseUUID(s, "entry id")
	return EntryID(u), err
}

// ParsePaidEntryID parses a paid-entry ID received at a trust boundary.
func ParsePaidEntryID(s string) (PaidEntryID, error) {
	u, err := parseUUID(s, "paid entry id")
	return PaidEntryID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, what+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}
