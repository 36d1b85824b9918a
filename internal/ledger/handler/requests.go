package handler

import (
	"strings"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	dErrors "mizan/pkg/domain-errors"
	"mizan/pkg/money"
)

// CreateYearRequest is the HTTP request body for POST /years.
type CreateYearRequest struct {
	Year int `json:"year"`
}

func (r *CreateYearRequest) Normalize() {}

func (r *CreateYearRequest) Validate() error {
	if r.Year == 0 {
		return dErrors.New(dErrors.CodeValidation, "year is required")
	}
	if r.Year < models.MinYearNumber {
		return dErrors.New(dErrors.CodeValidation, "year must be 2020 or later")
	}
	return nil
}

// EntryRequest is the HTTP request body for creating and updating asset
// entries. Amounts arrive as decimal strings and are parsed fail-closed.
type EntryRequest struct {
	Name      string `json:"name"`
	AssetType string `json:"asset_type"`
	Amount    string `json:"amount"`

	// Parsed values (populated by Validate)
	parsedAssetType models.AssetType
	parsedAmount    money.Amount
}

func (r *EntryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AssetType = strings.TrimSpace(r.AssetType)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *EntryRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.AssetType == "" {
		return dErrors.New(dErrors.CodeValidation, "asset_type is required")
	}
	assetType, err := models.ParseAssetType(r.AssetType)
	if err != nil {
		return err
	}
	r.parsedAssetType = assetType

	amount, err := money.Parse(r.Amount)
	if err != nil {
		return err
	}
	r.parsedAmount = amount
	return nil
}

// ParsedAssetType returns the validated asset type.
func (r *EntryRequest) ParsedAssetType() models.AssetType {
	return r.parsedAssetType
}

// ParsedAmount returns the validated amount.
func (r *EntryRequest) ParsedAmount() money.Amount {
	return r.parsedAmount
}

// PaymentRequest is the HTTP request body for creating and updating
// payments. Payments carry no asset type.
type PaymentRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`

	parsedAmount money.Amount
}

func (r *PaymentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *PaymentRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	amount, err := money.Parse(r.Amount)
	if err != nil {
		return err
	}
	r.parsedAmount = amount
	return nil
}

// ParsedAmount returns the validated amount.
func (r *PaymentRequest) ParsedAmount() money.Amount {
	return r.parsedAmount
}

// CopyEntriesRequest is the HTTP request body for
// POST /years/{yearID}/copy-entries.
type CopyEntriesRequest struct {
	SourceYearID string `json:"source_year_id"`

	parsedSourceYearID id.YearID
}

func (r *CopyEntriesRequest) Normalize() {
	r.SourceYearID = strings.TrimSpace(r.SourceYearID)
}

func (r *CopyEntriesRequest) Validate() error {
	if r.SourceYearID == "" {
		return dErrors.New(dErrors.CodeValidation, "source_year_id is required")
	}
	sourceID, err := id.ParseYearID(r.SourceYearID)
	if err != nil {
		return err
	}
	r.parsedSourceYearID = sourceID
	return nil
}

// ParsedSourceYearID returns the validated source year identifier.
func (r *CopyEntriesRequest) ParsedSourceYearID() id.YearID {
	return r.parsedSourceYearID
}
