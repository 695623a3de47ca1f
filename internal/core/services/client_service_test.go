package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	storeSuite
	service portssvc.ClientSvcFacade
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.storeSuite.SetupTest()
	suite.service = services.NewClientService(suite.repos, suite.opts()...)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (suite *ClientServiceTestSuite) TestCreateClient_GeneratesUniquePortal() {
	a, err := suite.service.CreateClient(suite.ctx, dto.CreateClientRequest{Name: "Andi"}, "admin")
	suite.Require().NoError(err)
	b, err := suite.service.CreateClient(suite.ctx, dto.CreateClientRequest{Name: "Budi", Since: "2023-01-15"}, "admin")
	suite.Require().NoError(err)

	suite.NotEmpty(a.PortalAccessID)
	suite.NotEqual(a.PortalAccessID, b.PortalAccessID)
	suite.Equal(domain.ClientActive, a.Status)
	suite.Equal("2024-06-01", a.Since.Format(domain.DateLayout))
	suite.Equal("2023-01-15", b.Since.Format(domain.DateLayout))
}

func (suite *ClientServiceTestSuite) TestDeleteClient_RejectedWhileProjectsExist() {
	client, err := suite.service.CreateClient(suite.ctx, dto.CreateClientRequest{Name: "Andi"}, "admin")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repos.ProjectRepo.Insert(suite.ctx, &domain.Project{ID: "PRJ001", ClientID: client.ID}))

	err = suite.service.DeleteClient(suite.ctx, client.ID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.Require().NoError(suite.repos.ProjectRepo.Remove(suite.ctx, "PRJ001"))
	suite.Require().NoError(suite.service.DeleteClient(suite.ctx, client.ID))

	err = suite.service.DeleteClient(suite.ctx, client.ID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClientServiceTestSuite) TestUpdateClient() {
	client, err := suite.service.CreateClient(suite.ctx, dto.CreateClientRequest{Name: "Andi"}, "admin")
	suite.Require().NoError(err)

	inactive := domain.ClientInactive
	phone := "0811111111"
	updated, err := suite.service.UpdateClient(suite.ctx, client.ID, dto.UpdateClientRequest{Status: &inactive, Phone: &phone}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.ClientInactive, updated.Status)
	suite.Equal(phone, updated.Phone)
	suite.Equal("Andi", updated.Name)
}

func (suite *ClientServiceTestSuite) TestGetPortal() {
	client, err := suite.service.CreateClient(suite.ctx, dto.CreateClientRequest{Name: "Andi", Email: "andi@example.com"}, "admin")
	suite.Require().NoError(err)

	older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.repos.ProjectRepo.Insert(suite.ctx, &domain.Project{
		ID: "PRJ001", ProjectName: "Lamaran", ClientID: client.ID, Date: older, TotalCost: rp(5_000_000),
	}))
	suite.Require().NoError(suite.repos.ProjectRepo.Insert(suite.ctx, &domain.Project{
		ID: "PRJ002", ProjectName: "Pernikahan", ClientID: client.ID, Date: newer, TotalCost: rp(15_300_000),
		// Stale cache: the portal must not trust it.
		AmountPaid: rp(1), PaymentStatus: domain.PaymentSettled,
	}))
	suite.Require().NoError(suite.repos.ProjectRepo.Insert(suite.ctx, &domain.Project{ID: "PRJ999", ClientID: "CLI-OTHER", Date: newer}))
	suite.Require().NoError(suite.repos.TransactionRepo.Insert(suite.ctx, &domain.Transaction{
		ID: "TRN-DP-PRJ002", Date: older, Description: "DP Proyek Pernikahan", Amount: rp(5_000_000), Type: domain.Income, ProjectID: "PRJ002",
	}))
	suite.Require().NoError(suite.repos.TransactionRepo.Insert(suite.ctx, &domain.Transaction{
		ID: "TRN-FEE", Date: older, Description: "Gaji Freelancer", Amount: rp(1_000_000), Type: domain.Expense, ProjectID: "PRJ002",
	}))

	portal, err := suite.service.GetPortal(suite.ctx, client.PortalAccessID)
	suite.Require().NoError(err)
	suite.Equal("Andi", portal.Client.Name)
	suite.Require().Len(portal.Projects, 2)

	wedding := portal.Projects[0]
	suite.Equal("PRJ002", wedding.ID)
	suite.Equal(domain.PaymentDownPayment, wedding.PaymentStatus)
	suite.True(rp(5_000_000).Equal(wedding.AmountPaid))
	suite.True(rp(10_300_000).Equal(wedding.RemainingBalance))
	suite.Equal("Rp 10.300.000", wedding.RemainingBalanceText)
	suite.Require().Len(wedding.Payments, 1)
	suite.Equal("Rp 5.000.000", wedding.Payments[0].AmountText)

	suite.Equal(domain.PaymentUnpaid, portal.Projects[1].PaymentStatus)

	_, err = suite.service.GetPortal(suite.ctx, "unknown-token")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.service.GetPortal(suite.ctx, "")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
