package models

import (
	"strings"
	"time"

	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/money"
)

// AssetType classifies an asset entry. The set is closed: construction goes
// through ParseAssetType so an unrecognized value is rejected at the trust
// boundary instead of passing through as a free-form string.
type AssetType string

const (
	AssetTypeIncome         AssetType = "INCOME"
	AssetTypeSavings        AssetType = "SAVINGS"
	AssetTypeGold           AssetType = "GOLD"
	AssetTypeSilver         AssetType = "SILVER"
	AssetTypeStocks         AssetType = "STOCKS"
	AssetTypeBusinessAssets AssetType = "BUSINESS_ASSETS"
	AssetTypeOther          AssetType = "OTHER"
)

// AssetTypes lists every recognized asset type.
func AssetTypes() []AssetType {
	return []AssetType{
		AssetTypeIncome,
		AssetTypeSavings,
		AssetTypeGold,
		AssetTypeSilver,
		AssetTypeStocks,
		AssetTypeBusinessAssets,
		AssetTypeOther,
	}
}

// Valid reports whether the asset type is a recognized member of the enum.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeIncome, AssetTypeSavings, AssetTypeGold, AssetTypeSilver,
		AssetTypeStocks, AssetTypeBusinessAssets, AssetTypeOther:
		return true
	}
	return false
}

// ParseAssetType validates a raw string against the closed enum.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", dErrors.New(dErrors.CodeValidation, "asset_type must be one of INCOME, SAVINGS, GOLD, SILVER, STOCKS, BUSINESS_ASSETS, OTHER")
	}
	return t, nil
}

// minNameLen applies to entry and paid-entry names alike.
const minNameLen = 2

// Entry is a recorded asset contributing to a year's zakat-due figure.
// It belongs to exactly one year and is immutable once that year closes.
type Entry struct {
	ID        id.EntryID   `json:"id"`
	YearID    id.YearID    `json:"year_id"`
	Name      string       `json:"name"`
	AssetType AssetType    `json:"asset_type"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < minNameLen {
		return dErrors.New(dErrors.CodeInvariantViolation, "name must be at least 2 characters")
	}
	return nil
}

// NewEntry constructs a validated entry. Amount must already be parsed; the
// non-negative invariant is enforced by money.Parse at the boundary and
// re-checked here for callers constructing amounts directly.
func NewEntry(entryID id.EntryID, yearID id.YearID, name string, assetType AssetType, amount money.Amount, now time.Time) (*Entry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !assetType.Valid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unrecognized asset type")
	}
	if amount.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "amount must not be negative")
	}
	return &Entry{
		ID:        entryID,
		YearID:    yearID,
		Name:      strings.TrimSpace(name),
		AssetType: assetType,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CopyTo duplicates the entry into the target year under a fresh identity.
// Entries are never shared or aliased across years.
func (e *Entry) CopyTo(targetYearID id.YearID, now time.Time) *Entry {
	return &Entry{
		ID:        id.NewEntryID(),
		YearID:    targetYearID,
		Name:      e.Name,
		AssetType: e.AssetType,
		Amount:    e.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
