//go:build integration

package entry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mizan/internal/ledger/models"
	"mizan/internal/ledger/store/entry"
	"mizan/internal/ledger/store/year"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
	"mizan/pkg/platform/sentinel"
	"mizan/pkg/platform/tx"
	"mizan/pkg/testutil/containers"
)

type PostgresEntryStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	years    *year.Postgres
	store    *entry.Postgres
	yearID   id.YearID
}

func TestPostgresEntryStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresEntryStoreSuite))
}

func (s *PostgresEntryStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.years = year.NewPostgres(s.postgres.DB)
	s.store = entry.NewPostgres(s.postgres.DB)
}

func (s *PostgresEntryStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "paid_entries", "entries", "years")
	s.Require().NoError(err)

	y, err := models.NewYear(id.NewYearID(), 2025, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.years.CreateIfNumberAvailable(ctx, y))
	s.yearID = y.ID
}

func (s *PostgresEntryStoreSuite) newEntry(name string, cents int64) *models.Entry {
	e, err := models.NewEntry(id.NewEntryID(), s.yearID, name, models.AssetTypeSavings, money.FromCents(cents), time.Now().UTC())
	s.Require().NoError(err)
	return e
}

func (s *PostgresEntryStoreSuite) TestCRUD() {
	ctx := context.Background()

	e := s.newEntry("Savings account", 50000)
	s.Require().NoError(s.store.Create(ctx, e))

	found, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Savings account", found.Name)
	s.Equal(int64(50000), found.Amount.Cents)

	found.Name = "Renamed account"
	found.Amount = money.FromCents(75000)
	s.Require().NoError(s.store.Update(ctx, found))

	updated, err := s.store.FindByID(ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Renamed account", updated.Name)
	s.Equal(int64(75000), updated.Amount.Cents)

	s.Require().NoError(s.store.Delete(ctx, e.ID))
	_, err = s.store.FindByID(ctx, e.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresEntryStoreSuite) TestTotalByYear() {
	ctx := context.Background()

	total, err := s.store.TotalByYear(ctx, s.yearID)
	s.Require().NoError(err)
	s.Equal(int64(0), total.Cents, "empty year sums to zero")

	s.Require().NoError(s.store.Create(ctx, s.newEntry("Cash", 1000000)))
	s.Require().NoError(s.store.Create(ctx, s.newEntry("Gold", 200000)))

	total, err = s.store.TotalByYear(ctx, s.yearID)
	s.Require().NoError(err)
	s.Equal(int64(1200000), total.Cents)
}

// Writes made through a context-carried transaction must all vanish on
// rollback; this is the mechanism the copy operation's atomicity rests on.
func (s *PostgresEntryStoreSuite) TestTransactionRollbackDiscardsWrites() {
	ctx := context.Background()

	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(ctx, sqlTx)

	s.Require().NoError(s.store.Create(txCtx, s.newEntry("First of batch", 100)))
	s.Require().NoError(s.store.Create(txCtx, s.newEntry("Second of batch", 200)))

	s.Require().NoError(sqlTx.Rollback())

	entries, err := s.store.ListByYear(ctx, s.yearID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PostgresEntryStoreSuite) TestTransactionCommitPersistsWrites() {
	ctx := context.Background()

	sqlTx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(ctx, sqlTx)

	s.Require().NoError(s.store.Create(txCtx, s.newEntry("First of batch", 100)))
	s.Require().NoError(s.store.Create(txCtx, s.newEntry("Second of batch", 200)))

	s.Require().NoError(sqlTx.Commit())

	entries, err := s.store.ListByYear(ctx, s.yearID)
	s.Require().NoError(err)
	s.Len(entries, 2)
}
