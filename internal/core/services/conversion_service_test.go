package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) ConversionCompleted(source string) {
	m.Called(source)
}

func (m *MockEventRecorder) TransactionRecorded(t domain.TransactionType) {
	m.Called(t)
}

type ConversionServiceTestSuite struct {
	storeSuite
	events  *MockEventRecorder
	service portssvc.ConversionSvcFacade
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.storeSuite.SetupTest()
	suite.seedCatalog()
	suite.events = new(MockEventRecorder)
	suite.service = services.NewConversionService(suite.repos, "", append(suite.opts(), services.WithEventRecorder(suite.events))...)
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}

func (suite *ConversionServiceTestSuite) vena10Request() dto.ConvertLeadRequest {
	return dto.ConvertLeadRequest{
		Email:             "andi@example.com",
		Phone:             "08123456789",
		PackageID:         "PKG001",
		AddOnIDs:          []string{"ADD001"},
		PromoCodeID:       "PROMO001",
		DownPayment:       rp(5_000_000),
		DestinationCardID: "CARD001",
	}
}

func (suite *ConversionServiceTestSuite) TestConvertLead_WithPromoAndDownPayment() {
	suite.seedLead("LEAD001", domain.LeadFollowUp)
	suite.events.On("ConversionCompleted", services.SourceAdmin).Once()
	suite.events.On("TransactionRecorded", domain.Income).Once()

	res, err := suite.service.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.Require().NoError(err)
	suite.True(rp(15_300_000).Equal(res.TotalCost))
	suite.True(rp(10_300_000).Equal(res.Remaining))

	lead, err := suite.repos.LeadRepo.Get(suite.ctx, "LEAD001")
	suite.Require().NoError(err)
	suite.Equal(domain.LeadConverted, lead.Status)

	client, err := suite.repos.ClientRepo.Get(suite.ctx, res.Client.ID)
	suite.Require().NoError(err)
	suite.Equal("Andi & Siska", client.Name)
	suite.Len(client.PortalAccessID, 32)

	project, err := suite.repos.ProjectRepo.Get(suite.ctx, res.Project.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.PaymentDownPayment, project.PaymentStatus)
	suite.True(rp(5_000_000).Equal(project.AmountPaid))
	suite.True(rp(15_300_000).Equal(project.TotalCost))
	suite.Equal(client.ID, project.ClientID)

	txn, err := suite.repos.TransactionRepo.Get(suite.ctx, "TRN-DP-"+project.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.ClientIncomePocketID, txn.PocketID)
	suite.Equal("admin", txn.CreatedBy)

	card, err := suite.repos.CardRepo.Get(suite.ctx, "CARD001")
	suite.Require().NoError(err)
	suite.True(rp(5_000_000).Equal(card.Balance))

	pocket, err := suite.repos.PocketRepo.Get(suite.ctx, domain.ClientIncomePocketID)
	suite.Require().NoError(err)
	suite.True(rp(5_000_000).Equal(pocket.Amount))

	promo, err := suite.repos.PromoCodeRepo.Get(suite.ctx, "PROMO001")
	suite.Require().NoError(err)
	suite.Equal(1, promo.UsageCount)

	suite.events.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvertLead_ResultCarriesStoredVersions() {
	suite.seedLead("LEAD001", domain.LeadFollowUp)
	suite.events.On("ConversionCompleted", services.SourceAdmin).Once()
	suite.events.On("TransactionRecorded", domain.Income).Once()

	res, err := suite.service.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.Require().NoError(err)

	lead, err := suite.repos.LeadRepo.Get(suite.ctx, "LEAD001")
	suite.Require().NoError(err)
	suite.Equal(int64(2), lead.Version)
	suite.Equal(lead.Version, res.Lead.Version)

	suite.Equal(int64(1), res.Client.Version)
	suite.Equal(int64(1), res.Project.Version)
	suite.Require().NotNil(res.Transaction)
	suite.Equal(int64(1), res.Transaction.Version)

	card, err := suite.repos.CardRepo.Get(suite.ctx, "CARD001")
	suite.Require().NoError(err)
	suite.Require().NotNil(res.Card)
	suite.Equal(card.Version, res.Card.Version)

	pocket, err := suite.repos.PocketRepo.Get(suite.ctx, domain.ClientIncomePocketID)
	suite.Require().NoError(err)
	suite.Require().NotNil(res.Pocket)
	suite.Equal(pocket.Version, res.Pocket.Version)

	promo, err := suite.repos.PromoCodeRepo.Get(suite.ctx, "PROMO001")
	suite.Require().NoError(err)
	suite.Require().NotNil(res.PromoCode)
	suite.Equal(promo.Version, res.PromoCode.Version)

	// The returned lead can be edited straight away without a conflict.
	res.Lead.Notes = "Sudah DP"
	cs := portsrepo.NewChangeSet()
	suite.Require().NoError(cs.UpdateVersioned(&res.Lead))
	suite.NoError(suite.repos.UnitOfWork.Apply(suite.ctx, cs))
}

func (suite *ConversionServiceTestSuite) TestConvertLead_NoPackageMutatesNothing() {
	suite.seedLead("LEAD001", domain.LeadNew)
	req := suite.vena10Request()
	req.PackageID = ""

	res, err := suite.service.ConvertLead(suite.ctx, "LEAD001", req, "admin")
	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "no package selected")

	lead, err := suite.repos.LeadRepo.Get(suite.ctx, "LEAD001")
	suite.Require().NoError(err)
	suite.Equal(domain.LeadNew, lead.Status)
	suite.Equal(0, suite.count(domain.KindClient))
	suite.Equal(0, suite.count(domain.KindProject))
	suite.Equal(0, suite.count(domain.KindTransaction))
	promo, _ := suite.repos.PromoCodeRepo.Get(suite.ctx, "PROMO001")
	suite.Equal(0, promo.UsageCount)
	suite.events.AssertNotCalled(suite.T(), "ConversionCompleted", mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvertLead_PromoUsageCap() {
	one := 1
	_, err := suite.repos.PromoCodeRepo.Update(suite.ctx, "PROMO001", func(p *domain.PromoCode) error {
		p.MaxUsage = &one
		return nil
	})
	suite.Require().NoError(err)
	suite.seedLead("LEAD001", domain.LeadNew)
	suite.seedLead("LEAD002", domain.LeadNew)
	suite.events.On("ConversionCompleted", services.SourceAdmin)
	suite.events.On("TransactionRecorded", domain.Income)

	_, err = suite.service.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.Require().NoError(err)

	_, err = suite.service.ConvertLead(suite.ctx, "LEAD002", suite.vena10Request(), "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	lead, _ := suite.repos.LeadRepo.Get(suite.ctx, "LEAD002")
	suite.Equal(domain.LeadNew, lead.Status)
	suite.Equal(1, suite.count(domain.KindProject))
}

func (suite *ConversionServiceTestSuite) TestConvertLead_AlreadyConverted() {
	suite.seedLead("LEAD001", domain.LeadConverted)
	_, err := suite.service.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ConversionServiceTestSuite) TestConvertLead_UnknownLead() {
	_, err := suite.service.ConvertLead(suite.ctx, "LEAD404", suite.vena10Request(), "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ConversionServiceTestSuite) TestConvertLead_RetriesAfterConflict() {
	suite.seedLead("LEAD001", domain.LeadNew)
	uow := &MockUnitOfWork{next: suite.repos.UnitOfWork}
	uow.On("Apply", mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()
	uow.On("Apply", mock.Anything, mock.Anything).Return(nil).Once()

	repos := suite.repos
	repos.UnitOfWork = uow
	svc := services.NewConversionService(repos, "", suite.opts()...)

	res, err := svc.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.Require().NoError(err)
	suite.NotNil(res)
	suite.Equal(1, suite.count(domain.KindProject))
	uow.AssertNumberOfCalls(suite.T(), "Apply", 2)
}

func (suite *ConversionServiceTestSuite) TestConvertLead_GivesUpAfterRepeatedConflicts() {
	suite.seedLead("LEAD001", domain.LeadNew)
	uow := &MockUnitOfWork{next: suite.repos.UnitOfWork}
	uow.On("Apply", mock.Anything, mock.Anything).Return(apperrors.ErrConflict)

	repos := suite.repos
	repos.UnitOfWork = uow
	svc := services.NewConversionService(repos, "", suite.opts()...)

	_, err := svc.ConvertLead(suite.ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.ErrorIs(err, apperrors.ErrConflict)
	uow.AssertNumberOfCalls(suite.T(), "Apply", 3)
	suite.Equal(0, suite.count(domain.KindProject))
}

func (suite *ConversionServiceTestSuite) TestConvertLead_CancelledContext() {
	suite.seedLead("LEAD001", domain.LeadNew)
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, err := suite.service.ConvertLead(ctx, "LEAD001", suite.vena10Request(), "admin")
	suite.ErrorIs(err, context.Canceled)
	suite.Equal(0, suite.count(domain.KindClient))
}

func (suite *ConversionServiceTestSuite) TestSubmitBooking() {
	suite.events.On("ConversionCompleted", services.SourceBooking).Once()

	req := dto.PublicBookingRequest{
		Name: "Budi & Rekan",
		ConvertLeadRequest: dto.ConvertLeadRequest{
			Email:     "budi@example.com",
			PackageID: "PKG001",
			Location:  "Jakarta",
			Date:      "2024-09-14",
		},
	}
	res, err := suite.service.SubmitBooking(suite.ctx, req)
	suite.Require().NoError(err)

	suite.Equal(domain.ChannelWebsite, res.Lead.ContactChannel)
	suite.Equal(domain.LeadConverted, res.Lead.Status)
	suite.Equal("Jakarta", res.Project.Location)
	suite.Equal("Proyek Budi & Rekan", res.Project.ProjectName)
	suite.Equal("2024-09-14", res.Project.Date.Format(domain.DateLayout))
	suite.Equal(domain.PaymentUnpaid, res.Project.PaymentStatus)
	suite.Nil(res.Transaction)

	stored, err := suite.repos.LeadRepo.Get(suite.ctx, res.Lead.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.LeadConverted, stored.Status)
	suite.Equal("system", stored.CreatedBy)
	suite.events.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestSubmitBooking_ValidationLeavesNoLead() {
	req := dto.PublicBookingRequest{Name: "Budi", ConvertLeadRequest: dto.ConvertLeadRequest{PackageID: "PKG404"}}
	_, err := suite.service.SubmitBooking(suite.ctx, req)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.count(domain.KindLead))
}
