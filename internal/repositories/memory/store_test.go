package memory_test

import (
	"context"
	"testing"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	repos portsrepo.RepositoryProvider
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos, s.store = memory.NewRepositoryProvider()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestInsertPreservesOrder() {
	for _, id := range []string{"L3", "L1", "L2"} {
		s.Require().NoError(s.repos.LeadRepo.Insert(s.ctx, &domain.Lead{ID: id, Name: "Lead " + id}))
	}

	leads, err := s.repos.LeadRepo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(leads, 3)
	s.Equal("L3", leads[0].ID)
	s.Equal("L1", leads[1].ID)
	s.Equal("L2", leads[2].ID)
	s.Equal(int64(1), leads[0].Version)
}

func (s *StoreTestSuite) TestInsertDuplicate() {
	s.Require().NoError(s.repos.CardRepo.Insert(s.ctx, &domain.Card{ID: "CARD001"}))
	err := s.repos.CardRepo.Insert(s.ctx, &domain.Card{ID: "CARD001"})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestGetNotFound() {
	_, err := s.repos.ClientRepo.Get(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateAndRemove() {
	s.Require().NoError(s.repos.PromoCodeRepo.Insert(s.ctx, &domain.PromoCode{ID: "PROMO1", Code: "VENA10"}))

	updated, err := s.repos.PromoCodeRepo.Update(s.ctx, "PROMO1", func(p *domain.PromoCode) error {
		p.UsageCount++
		return nil
	})
	s.Require().NoError(err)
	s.Equal(1, updated.UsageCount)
	s.Equal(int64(2), updated.Version)

	stored, err := s.repos.PromoCodeRepo.Get(s.ctx, "PROMO1")
	s.Require().NoError(err)
	s.Equal(1, stored.UsageCount)
	s.Equal(int64(2), stored.Version)

	s.Require().NoError(s.repos.PromoCodeRepo.Remove(s.ctx, "PROMO1"))
	s.ErrorIs(s.repos.PromoCodeRepo.Remove(s.ctx, "PROMO1"), apperrors.ErrNotFound)

	_, err = s.repos.PromoCodeRepo.Update(s.ctx, "PROMO1", func(*domain.PromoCode) error { return nil })
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateCannotChangeID() {
	s.Require().NoError(s.repos.LeadRepo.Insert(s.ctx, &domain.Lead{ID: "L1"}))
	_, err := s.repos.LeadRepo.Update(s.ctx, "L1", func(l *domain.Lead) error {
		l.ID = "L2"
		return nil
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestVersionedUpdateConflict() {
	s.Require().NoError(s.repos.PromoCodeRepo.Insert(s.ctx, &domain.PromoCode{ID: "PROMO1"}))
	stale, err := s.repos.PromoCodeRepo.Get(s.ctx, "PROMO1")
	s.Require().NoError(err)

	_, err = s.repos.PromoCodeRepo.Update(s.ctx, "PROMO1", func(p *domain.PromoCode) error {
		p.UsageCount = 1
		return nil
	})
	s.Require().NoError(err)

	stale.UsageCount = 1
	cs := portsrepo.NewChangeSet()
	s.Require().NoError(cs.UpdateVersioned(stale))
	s.ErrorIs(s.store.Apply(s.ctx, cs), apperrors.ErrConflict)
}

func (s *StoreTestSuite) TestPutChecksReadVersion() {
	s.Require().NoError(s.repos.CardRepo.Insert(s.ctx, &domain.Card{ID: "CARD001"}))
	stale, err := s.repos.CardRepo.Get(s.ctx, "CARD001")
	s.Require().NoError(err)

	fresh := *stale
	fresh.Balance = decimal.NewFromInt(2000)
	cs := portsrepo.NewChangeSet()
	s.Require().NoError(cs.Put(&fresh))
	s.Require().NoError(s.store.Apply(s.ctx, cs))

	stale.Balance = decimal.NewFromInt(1000)
	cs = portsrepo.NewChangeSet()
	s.Require().NoError(cs.Put(stale))
	s.ErrorIs(s.store.Apply(s.ctx, cs), apperrors.ErrConflict)

	card, err := s.repos.CardRepo.Get(s.ctx, "CARD001")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(2000).Equal(card.Balance))
}

func (s *StoreTestSuite) TestPutKeepsQueuedInsert() {
	cs := portsrepo.NewChangeSet()
	s.Require().NoError(cs.Insert(&domain.Project{ID: "PRJ1", ProjectName: "Draft"}))
	s.Require().NoError(cs.Put(&domain.Project{ID: "PRJ1", ProjectName: "Final"}))
	s.Equal(1, cs.Len())
	s.Require().NoError(s.store.Apply(s.ctx, cs))

	project, err := s.repos.ProjectRepo.Get(s.ctx, "PRJ1")
	s.Require().NoError(err)
	s.Equal("Final", project.ProjectName)
	s.Equal(int64(1), project.Version)
}

func (s *StoreTestSuite) TestApplyIsAllOrNothing() {
	s.Require().NoError(s.repos.CardRepo.Insert(s.ctx, &domain.Card{ID: "CARD001"}))

	cs := portsrepo.NewChangeSet()
	s.Require().NoError(cs.Insert(&domain.Client{ID: "CLI1", Name: "Andi"}))
	s.Require().NoError(cs.Insert(&domain.Project{ID: "PRJ1", ClientID: "CLI1"}))
	s.Require().NoError(cs.Update(&domain.Card{ID: "CARD001", Balance: decimal.NewFromInt(5)}))
	s.Require().NoError(cs.Update(&domain.Lead{ID: "missing-lead"}))

	err := s.store.Apply(s.ctx, cs)
	s.ErrorIs(err, apperrors.ErrNotFound)

	clients, err := s.repos.ClientRepo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(clients)
	projects, err := s.repos.ProjectRepo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(projects)
	card, err := s.repos.CardRepo.Get(s.ctx, "CARD001")
	s.Require().NoError(err)
	s.True(card.Balance.IsZero())
}

func (s *StoreTestSuite) TestApplyInsertThenUpdateInSameBatch() {
	cs := portsrepo.NewChangeSet()
	s.Require().NoError(cs.Insert(&domain.Lead{ID: "L1", Status: domain.LeadNew}))
	s.Require().NoError(cs.Update(&domain.Lead{ID: "L1", Status: domain.LeadConverted}))
	s.Require().NoError(s.store.Apply(s.ctx, cs))

	lead, err := s.repos.LeadRepo.Get(s.ctx, "L1")
	s.Require().NoError(err)
	s.Equal(domain.LeadConverted, lead.Status)
	s.Equal(int64(2), lead.Version)
}

func (s *StoreTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.Error(s.repos.LeadRepo.Insert(ctx, &domain.Lead{ID: "L1"}))

	leads, err := s.repos.LeadRepo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(leads)
}
