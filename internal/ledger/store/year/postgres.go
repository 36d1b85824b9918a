package year

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/platform/sentinel"
	"mizan/pkg/platform/tx"
)

// pgUniqueViolation is the postgres error code for unique constraint breaches.
const pgUniqueViolation = "23505"

// Postgres persists years in the years table. Methods resolve their querier
// per call so they join an in-flight transaction carried in context.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a postgres-backed year store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const yearColumns = "id, year, status, closed_at, created_at, updated_at"

func scanYear(row interface{ Scan(dest ...any) error }) (*models.Year, error) {
	var y models.Year
	var rawID string
	var closedAt sql.NullTime
	if err := row.Scan(&rawID, &y.Number, &y.Status, &closedAt, &y.CreatedAt, &y.UpdatedAt); err != nil {
		return nil, err
	}
	yearID, err := id.ParseYearID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan year id: %w", err)
	}
	y.ID = yearID
	if closedAt.Valid {
		t := closedAt.Time
		y.ClosedAt = &t
	}
	return &y, nil
}

// CreateIfNumberAvailable inserts the year; the unique index on year makes a
// racing duplicate fail with a unique violation, reported as
// sentinel.ErrAlreadyUsed so the service can fall back to a fetch.
func (s *Postgres) CreateIfNumberAvailable(ctx context.Context, y *models.Year) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO years (id, year, status, closed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		y.ID.String(), y.Number, y.Status, y.ClosedAt, y.CreatedAt, y.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert year: %w", err)
	}
	return nil
}

// FindByID returns the year or sentinel.ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+yearColumns+` FROM years WHERE id = $1`, yearID.String())
	y, err := scanYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select year: %w", err)
	}
	return y, nil
}

// FindByIDForUpdate reads the year under a row lock. Only meaningful inside
// a transaction; the copy operation uses it so a concurrent close of the
// target serializes against the in-flight copy.
func (s *Postgres) FindByIDForUpdate(ctx context.Context, yearID id.YearID) (*models.Year, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+yearColumns+` FROM years WHERE id = $1 FOR UPDATE`, yearID.String())
	y, err := scanYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select year for update: %w", err)
	}
	return y, nil
}

// FindByNumber returns the year for a calendar year number.
func (s *Postgres) FindByNumber(ctx context.Context, number int) (*models.Year, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+yearColumns+` FROM years WHERE year = $1`, number)
	y, err := scanYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select year by number: %w", err)
	}
	return y, nil
}

// List returns all years ordered by year number descending.
func (s *Postgres) List(ctx context.Context) ([]*models.Year, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+yearColumns+` FROM years ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var years []*models.Year
	for rows.Next() {
		y, err := scanYear(rows)
		if err != nil {
			return nil, fmt.Errorf("scan year row: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate years: %w", err)
	}
	return years, nil
}

// Close performs the OPEN -> CLOSED transition as a conditional write.
// The WHERE status = 'OPEN' clause is the compare-and-swap: of two
// concurrent closers only one update matches, and the loser is told apart
// from a missing year by a follow-up read.
func (s *Postgres) Close(ctx context.Context, yearID id.YearID, closedAt time.Time) (*models.Year, error) {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE years SET status = $1, closed_at = $2, updated_at = $2
		 WHERE id = $3 AND status = $4`,
		models.YearStatusClosed, closedAt, yearID.String(), models.YearStatusOpen,
	)
	if err != nil {
		return nil, fmt.Errorf("close year: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("close year rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.FindByID(ctx, yearID); err != nil {
			return nil, err
		}
		return nil, sentinel.ErrInvalidState
	}
	return s.FindByID(ctx, yearID)
}
