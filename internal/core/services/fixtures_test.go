package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func rp(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// storeSuite gives every service suite a fresh in-memory store and a fixed clock.
type storeSuite struct {
	suite.Suite
	ctx   context.Context
	repos portsrepo.RepositoryProvider
	store *memory.Store
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos, s.store = memory.NewRepositoryProvider()
}

func (s *storeSuite) opts() []services.Option {
	return []services.Option{services.WithClock(func() time.Time { return fixedNow })}
}

// seedCatalog stores the records most scenarios need: a package, two add-ons,
// a percentage promo, a debit card, the client income pocket and one freelancer.
func (s *storeSuite) seedCatalog() {
	s.Require().NoError(s.repos.PackageRepo.Insert(s.ctx, &domain.Package{ID: "PKG001", Name: "Paket Gold", Price: rp(15_000_000)}))
	s.Require().NoError(s.repos.AddOnRepo.Insert(s.ctx, &domain.AddOn{ID: "ADD001", Name: "Drone", Price: rp(2_000_000)}))
	s.Require().NoError(s.repos.AddOnRepo.Insert(s.ctx, &domain.AddOn{ID: "ADD002", Name: "Album Tambahan", Price: rp(750_000)}))
	s.Require().NoError(s.repos.PromoCodeRepo.Insert(s.ctx, &domain.PromoCode{
		ID: "PROMO001", Code: "VENA10", DiscountType: domain.DiscountPercentage, DiscountValue: rp(10), IsActive: true,
	}))
	s.Require().NoError(s.repos.CardRepo.Insert(s.ctx, &domain.Card{ID: "CARD001", BankName: "BCA", CardType: domain.CardDebit}))
	s.Require().NoError(s.repos.PocketRepo.Insert(s.ctx, &domain.FinancialPocket{
		ID: domain.ClientIncomePocketID, Name: "Pemasukan Klien", Type: domain.PocketSaving,
	}))
	s.Require().NoError(s.repos.TeamMemberRepo.Insert(s.ctx, &domain.TeamMember{
		ID: "TM001", Name: "Siti Aminah", Role: "Fotografer", StandardFee: rp(1_500_000),
	}))
}

func (s *storeSuite) seedLead(id string, status domain.LeadStatus) {
	s.Require().NoError(s.repos.LeadRepo.Insert(s.ctx, &domain.Lead{
		ID: id, Name: "Andi & Siska", Location: "Bandung", Status: status, ContactChannel: domain.ChannelInstagram,
	}))
}

func (s *storeSuite) count(kind domain.EntityKind) int {
	docs, err := s.store.List(s.ctx, kind)
	s.Require().NoError(err)
	return len(docs)
}

// MockUnitOfWork lets a test fail Apply on demand before delegating to the real store.
type MockUnitOfWork struct {
	mock.Mock
	next portsrepo.UnitOfWork
}

func (m *MockUnitOfWork) Apply(ctx context.Context, cs *portsrepo.ChangeSet) error {
	args := m.Called(ctx, cs)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.next.Apply(ctx, cs)
}

// slowUnitOfWork widens the window between planning a change set and
// committing it, the way a database round trip does.
type slowUnitOfWork struct {
	next  portsrepo.UnitOfWork
	delay time.Duration
}

func (u slowUnitOfWork) Apply(ctx context.Context, cs *portsrepo.ChangeSet) error {
	time.Sleep(u.delay)
	return u.next.Apply(ctx, cs)
}
