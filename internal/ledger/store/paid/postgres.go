package paid

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

// Postgres persists paid entries in the paid_entries table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a postgres-backed paid-entry store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const paidColumns = "id, year_id, name, amount_cents, created_at, updated_at"

func scanPaid(row interface{ Scan(dest ...any) error }) (*models.PaidEntry, error) {
	var p models.PaidEntry
	var rawID, rawYearID string
	var cents int64
	if err := row.Scan(&rawID, &rawYearID, &p.Name, &cents, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	paidID, err := id.ParsePaidEntryID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan paid entry id: %w", err)
	}
	yearID, err := id.ParseYearID(rawYearID)
	if err != nil {
		return nil, fmt.Errorf("scan paid entry year id: %w", err)
	}
	p.ID = paidID
	p.YearID = yearID
	p.Amount = money.FromCents(cents)
	return &p, nil
}

// Create inserts a new paid entry.
func (s *Postgres) Create(ctx context.Context, p *models.PaidEntry) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO paid_entries (id, year_id, name, amount_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID.String(), p.YearID.String(), p.Name, p.Amount.Cents, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert paid entry: %w", err)
	}
	return nil
}

// FindByID returns the paid entry or sentinel.ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, paidID id.PaidEntryID) (*models.PaidEntry, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+paidColumns+` FROM paid_entries WHERE id = $1`, paidID.String())
	p, err := scanPaid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select paid entry: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of an existing paid entry.
func (s *Postgres) Update(ctx context.Context, p *models.PaidEntry) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE paid_entries SET name = $1, amount_cents = $2, updated_at = $3 WHERE id = $4`,
		p.Name, p.Amount.Cents, p.UpdatedAt, p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update paid entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update paid entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes a paid entry.
func (s *Postgres) Delete(ctx context.Context, paidID id.PaidEntryID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM paid_entries WHERE id = $1`, paidID.String())
	if err != nil {
		return fmt.Errorf("delete paid entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete paid entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByYear returns the year's paid entries in insertion order.
func (s *Postgres) ListByYear(ctx context.Context, yearID id.YearID) ([]*models.PaidEntry, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+paidColumns+` FROM paid_entries WHERE year_id = $1 ORDER BY created_at, id`,
		yearID.String())
	if err != nil {
		return nil, fmt.Errorf("list paid entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.PaidEntry
	for rows.Next() {
		p, err := scanPaid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paid entry row: %w", err)
		}
		entries = append(entries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paid entries: %w", err)
	}
	return entries, nil
}

// TotalByYear sums the year's paid amounts in cents in SQL.
func (s *Postgres) TotalByYear(ctx context.Context, yearID id.YearID) (money.Amount, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var cents int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM paid_entries WHERE year_id = $1`,
		yearID.String()).Scan(&cents)
	if err != nil {
		return money.Amount{}, fmt.Errorf("sum paid entries: %w", err)
	}
	return money.FromCents(cents), nil
}
