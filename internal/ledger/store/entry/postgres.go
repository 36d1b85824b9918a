package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
	"mizan/pkg/platform/sentinel"
	"mizan/pkg/platform/tx"
)

// Postgres persists entries in the entries table. Amounts are stored as
// BIGINT cents so SQL aggregation stays exact.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a postgres-backed entry store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const entryColumns = "id, year_id, name, asset_type, amount_cents, created_at, updated_at"

func scanEntry(row interface{ Scan(dest ...any) error }) (*models.Entry, error) {
	var e models.Entry
	var rawID, rawYearID string
	var cents int64
	if err := row.Scan(&rawID, &rawYearID, &e.Name, &e.AssetType, &cents, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	entryID, err := id.ParseEntryID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan entry id: %w", err)
	}
	yearID, err := id.ParseYearID(rawYearID)
	if err != nil {
		return nil, fmt.Errorf("scan entry year id: %w", err)
	}
	e.ID = entryID
	e.YearID = yearID
	e.Amount = money.FromCents(cents)
	return &e, nil
}

// Create inserts a new entry.
func (s *Postgres) Create(ctx context.Context, e *models.Entry) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO entries (id, year_id, name, asset_type, amount_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID.String(), e.YearID.String(), e.Name, e.AssetType, e.Amount.Cents, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// FindByID returns the entry or sentinel.ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, entryID.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select entry: %w", err)
	}
	return e, nil
}

// Update overwrites the mutable fields of an existing entry.
func (s *Postgres) Update(ctx context.Context, e *models.Entry) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE entries SET name = $1, asset_type = $2, amount_cents = $3, updated_at = $4
		 WHERE id = $5`,
		e.Name, e.AssetType, e.Amount.Cents, e.UpdatedAt, e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (s *Postgres) Delete(ctx context.Context, entryID id.EntryID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, entryID.String())
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByYear returns the year's entries in insertion order.
func (s *Postgres) ListByYear(ctx context.Context, yearID id.YearID) ([]*models.Entry, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE year_id = $1 ORDER BY created_at, id`,
		yearID.String())
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// TotalByYear sums the year's entry amounts in cents in SQL. BIGINT cents
// keep the aggregate exact regardless of summation order.
func (s *Postgres) TotalByYear(ctx context.Context, yearID id.YearID) (money.Amount, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var cents int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE year_id = $1`,
		yearID.String()).Scan(&cents)
	if err != nil {
		return money.Amount{}, fmt.Errorf("sum entries: %w", err)
	}
	return money.FromCents(cents), nil
}
