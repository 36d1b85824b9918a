package paid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mizan/internal/ledger/models"
	id "mizan/pkg/domain"
	"mizan/pkg/money"
	"mizan/pkg/platform/sentinel"
)

type PaidStoreSuite struct {
	suite.Suite
	store  *InMemory
	ctx    context.Context
	yearID id.YearID
}

func (s *PaidStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.yearID = id.NewYearID()
}

func TestPaidStoreSuite(t *testing.T) {
	suite.Run(t, new(PaidStoreSuite))
}

func (s *PaidStoreSuite) newPaid(name string, cents int64) *models.PaidEntry {
	p, err := models.NewPaidEntry(id.NewPaidEntryID(), s.yearID, name, money.FromCents(cents), time.Now())
	s.Require().NoError(err)
	return p
}

func (s *PaidStoreSuite) TestCreateAndFind() {
	p := s.newPaid("First installment", 10000)
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, found.Name)

	_, err = s.store.FindByID(s.ctx, id.NewPaidEntryID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PaidStoreSuite) TestUpdateAndDelete() {
	p := s.newPaid("First installment", 10000)
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.Amount = money.FromCents(15000)
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(15000), found.Amount.Cents)

	s.Require().NoError(s.store.Delete(s.ctx, p.ID))
	s.Require().ErrorIs(s.store.Delete(s.ctx, p.ID), sentinel.ErrNotFound)
}

func (s *PaidStoreSuite) TestTotalByYear() {
	s.Require().NoError(s.store.Create(s.ctx, s.newPaid("First", 5000)))
	s.Require().NoError(s.store.Create(s.ctx, s.newPaid("Second", 5000)))

	other, err := models.NewPaidEntry(id.NewPaidEntryID(), id.NewYearID(), "Other year", money.FromCents(999), time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, other))

	total, err := s.store.TotalByYear(s.ctx, s.yearID)
	s.Require().NoError(err)
	s.Equal(int64(10000), total.Cents)
}
