package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLeadRepository is a mock type for the lead repository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Get(ctx context.Context, id string) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, rec *domain.Lead) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, patch func(*domain.Lead) error) (*domain.Lead, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type LeadServiceTestSuite struct {
	storeSuite
}

func TestLeadServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeadServiceTestSuite))
}

func (suite *LeadServiceTestSuite) TestCreateLead_Defaults() {
	svc := services.NewLeadService(suite.repos.LeadRepo, suite.opts()...)

	lead, err := svc.CreateLead(suite.ctx, dto.CreateLeadRequest{Name: "  Fajar  ", ContactChannel: "TELEGRAM"}, "admin")
	suite.Require().NoError(err)
	suite.Equal("Fajar", lead.Name)
	suite.Equal(domain.LeadNew, lead.Status)
	suite.Equal(domain.ChannelOther, lead.ContactChannel)
	suite.Equal("2024-06-01", lead.Date.Format(domain.DateLayout))
	suite.Contains(lead.ID, "LEAD-")

	_, err = svc.CreateLead(suite.ctx, dto.CreateLeadRequest{Name: " "}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LeadServiceTestSuite) TestSubmitPublicLead() {
	svc := services.NewLeadService(suite.repos.LeadRepo, suite.opts()...)

	lead, err := svc.SubmitPublicLead(suite.ctx, dto.PublicLeadRequest{Name: "Citra", Message: "Tanya paket lamaran"})
	suite.Require().NoError(err)
	suite.Equal(domain.ChannelSuggestionForm, lead.ContactChannel)
	suite.Equal("Tanya paket lamaran", lead.Notes)
	suite.Equal("system", lead.CreatedBy)
}

func (suite *LeadServiceTestSuite) TestMoveLead() {
	svc := services.NewLeadService(suite.repos.LeadRepo, suite.opts()...)
	suite.seedLead("LEAD001", domain.LeadNew)

	moved, err := svc.MoveLead(suite.ctx, "LEAD001", domain.LeadFollowUp, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.LeadFollowUp, moved.Status)

	_, err = svc.MoveLead(suite.ctx, "LEAD001", domain.LeadConverted, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = svc.MoveLead(suite.ctx, "LEAD001", domain.LeadRejected, "admin")
	suite.Require().NoError(err)
	_, err = svc.MoveLead(suite.ctx, "LEAD001", domain.LeadNew, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LeadServiceTestSuite) TestUpdateLead_TerminalOnlyNotes() {
	svc := services.NewLeadService(suite.repos.LeadRepo, suite.opts()...)
	suite.seedLead("LEAD001", domain.LeadConverted)

	name := "Other"
	_, err := svc.UpdateLead(suite.ctx, "LEAD001", dto.UpdateLeadRequest{Name: &name}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	notes := "Sudah DP"
	updated, err := svc.UpdateLead(suite.ctx, "LEAD001", dto.UpdateLeadRequest{Notes: &notes}, "admin")
	suite.Require().NoError(err)
	suite.Equal(notes, updated.Notes)
}

func (suite *LeadServiceTestSuite) TestLeadStats() {
	repo := new(MockLeadRepository)
	svc := services.NewLeadService(repo, suite.opts()...)
	thisMonth := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	repo.On("List", suite.ctx).Return([]domain.Lead{
		{ID: "L1", Status: domain.LeadConverted, Date: lastMonth},
		{ID: "L2", Status: domain.LeadRejected, Date: thisMonth},
		{ID: "L3", Status: domain.LeadNew, Date: thisMonth},
	}, nil).Once()

	stats, err := svc.LeadStats(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(3, stats.Total)
	suite.Equal(2, stats.NewThisMonth)
	suite.Equal(1, stats.Converted)
	suite.Equal(1, stats.Rejected)
	suite.InDelta(33.3, stats.ConversionRate, 0.001)
	repo.AssertExpectations(suite.T())
}

func (suite *LeadServiceTestSuite) TestDeleteLead_RepositoryError() {
	repo := new(MockLeadRepository)
	svc := services.NewLeadService(repo, suite.opts()...)
	repo.On("Remove", suite.ctx, "LEAD001").Return(apperrors.ErrNotFound).Once()

	err := svc.DeleteLead(suite.ctx, "LEAD001")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	repo.AssertExpectations(suite.T())
}
