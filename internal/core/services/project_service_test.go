package services_test

import (
	"testing"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	storeSuite
	service portssvc.ProjectSvcFacade
	finance portssvc.FinanceSvcFacade
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.storeSuite.SetupTest()
	suite.seedCatalog()
	suite.Require().NoError(suite.repos.ClientRepo.Insert(suite.ctx, &domain.Client{ID: "CLI001", Name: "Andi", Status: domain.ClientActive}))
	suite.Require().NoError(suite.repos.TeamMemberRepo.Insert(suite.ctx, &domain.TeamMember{ID: "TM002", Name: "Bambang Sudiro", Role: "Videografer", StandardFee: rp(2_000_000)}))
	suite.service = services.NewProjectService(suite.repos, suite.opts()...)
	suite.finance = services.NewFinanceService(suite.repos, suite.opts()...)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (suite *ProjectServiceTestSuite) create(team ...dto.TeamAssignmentRequest) *domain.Project {
	project, err := suite.service.CreateProject(suite.ctx, dto.CreateProjectRequest{
		ProjectName: "Prewedding Andi",
		ClientID:    "CLI001",
		PackageID:   "PKG001",
		AddOnIDs:    []string{"ADD002"},
		Date:        "2024-07-20",
		Team:        team,
	}, "admin")
	suite.Require().NoError(err)
	return project
}

func (suite *ProjectServiceTestSuite) TestCreateProject_DefaultsAndPayments() {
	project := suite.create(
		dto.TeamAssignmentRequest{MemberID: "TM001"},
		dto.TeamAssignmentRequest{MemberID: "TM002", Role: "Drone", Fee: rp(1_000_000), Reward: rp(200_000)},
	)

	suite.Equal(domain.ProjectPending, project.Status)
	suite.Equal("Andi", project.ClientName)
	suite.True(rp(15_750_000).Equal(project.TotalCost))
	suite.Equal(domain.PaymentUnpaid, project.PaymentStatus)
	suite.Require().Len(project.Team, 2)
	suite.Equal("Fotografer", project.Team[0].Role)
	suite.True(rp(1_500_000).Equal(project.Team[0].Fee))
	suite.Equal("Drone", project.Team[1].Role)

	payments, err := suite.repos.TeamPaymentRepo.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 2)
	suite.Equal(domain.TeamProjectPaymentID(project.ID, "TM001"), payments[0].ID)
	suite.Equal(domain.TeamPaymentUnpaid, payments[0].Status)
	suite.True(rp(200_000).Equal(payments[1].Reward))
}

func (suite *ProjectServiceTestSuite) TestCreateProject_Validation() {
	_, err := suite.service.CreateProject(suite.ctx, dto.CreateProjectRequest{ProjectName: "X", ClientID: "CLI404", Date: "2024-07-20"}, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.CreateProject(suite.ctx, dto.CreateProjectRequest{ProjectName: "X", ClientID: "CLI001", Date: "20-07-2024"}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateProject(suite.ctx, dto.CreateProjectRequest{
		ProjectName: "X", ClientID: "CLI001", Date: "2024-07-20",
		Team: []dto.TeamAssignmentRequest{{MemberID: "TM001"}, {MemberID: "TM001"}},
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(0, suite.count(domain.KindProject))
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_TeamKeepsPaidPayments() {
	project := suite.create(dto.TeamAssignmentRequest{MemberID: "TM001"}, dto.TeamAssignmentRequest{MemberID: "TM002"})
	paidID := domain.TeamProjectPaymentID(project.ID, "TM001")
	_, err := suite.repos.TeamPaymentRepo.Update(suite.ctx, paidID, func(p *domain.TeamProjectPayment) error {
		p.Status = domain.TeamPaymentPaid
		return nil
	})
	suite.Require().NoError(err)

	name := "Prewedding Andi & Siska"
	empty := []dto.TeamAssignmentRequest{}
	updated, err := suite.service.UpdateProject(suite.ctx, project.ID, dto.UpdateProjectRequest{ProjectName: &name, Team: &empty}, "admin")
	suite.Require().NoError(err)
	suite.Equal(name, updated.ProjectName)
	suite.Empty(updated.Team)
	suite.True(rp(15_750_000).Equal(updated.TotalCost))

	payments, err := suite.repos.TeamPaymentRepo.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)
	suite.Equal(paidID, payments[0].ID)
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_NilTeamLeavesPayments() {
	project := suite.create(dto.TeamAssignmentRequest{MemberID: "TM001"})
	notes := "Bawa lighting tambahan"

	_, err := suite.service.UpdateProject(suite.ctx, project.ID, dto.UpdateProjectRequest{Notes: &notes}, "admin")
	suite.Require().NoError(err)
	suite.Equal(1, suite.count(domain.KindTeamProjectPayment))
}

func (suite *ProjectServiceTestSuite) TestMoveProject() {
	project := suite.create()

	moved, err := suite.service.MoveProject(suite.ctx, project.ID, dto.MoveProjectRequest{Status: domain.ProjectEditing, SubStatus: "Editing Video"}, "admin")
	suite.Require().NoError(err)
	suite.Equal(70, moved.Progress)
	suite.Equal("Editing Video", moved.SubStatus)

	moved, err = suite.service.MoveProject(suite.ctx, project.ID, dto.MoveProjectRequest{Status: domain.ProjectShipped, ShippingDetails: "JNE 123"}, "admin")
	suite.Require().NoError(err)
	suite.Empty(moved.SubStatus)
	suite.Equal("JNE 123", moved.ShippingDetails)

	_, err = suite.service.MoveProject(suite.ctx, project.ID, dto.MoveProjectRequest{Status: domain.ProjectCompleted, SubStatus: "Cetak Album"}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestDeleteProject_Cascades() {
	project := suite.create(dto.TeamAssignmentRequest{MemberID: "TM001"})
	_, err := suite.finance.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "DP Proyek Prewedding Andi",
		Amount:      rp(5_000_000),
		Type:        domain.Income,
		Category:    domain.CategoryDownPayment,
		ProjectID:   project.ID,
		CardID:      "CARD001",
		PocketID:    domain.ClientIncomePocketID,
	}, "admin")
	suite.Require().NoError(err)
	_, err = suite.finance.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Sewa Gedung",
		Amount:      rp(1_000_000),
		Type:        domain.Expense,
		Category:    "Sewa Tempat",
		CardID:      "CARD001",
	}, "admin")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteProject(suite.ctx, project.ID, "admin"))

	suite.Equal(0, suite.count(domain.KindProject))
	suite.Equal(0, suite.count(domain.KindTeamProjectPayment))
	suite.Equal(1, suite.count(domain.KindTransaction))

	card, _ := suite.repos.CardRepo.Get(suite.ctx, "CARD001")
	suite.True(rp(-1_000_000).Equal(card.Balance))
	pocket, _ := suite.repos.PocketRepo.Get(suite.ctx, domain.ClientIncomePocketID)
	suite.True(pocket.Amount.IsZero())

	err = suite.service.DeleteProject(suite.ctx, project.ID, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProjectServiceTestSuite) TestRevisions() {
	project := suite.create()

	_, err := suite.service.AddRevision(suite.ctx, project.ID, dto.AddRevisionRequest{AdminNotes: "Warna terlalu gelap", Deadline: "2024-08-01", FreelancerID: "TM404"}, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	updated, err := suite.service.AddRevision(suite.ctx, project.ID, dto.AddRevisionRequest{AdminNotes: "Warna terlalu gelap", Deadline: "2024-08-01", FreelancerID: "TM001"}, "admin")
	suite.Require().NoError(err)
	suite.Require().Len(updated.Revisions, 1)
	rev := updated.Revisions[0]
	suite.Equal(domain.RevisionPending, rev.Status)
	suite.Equal("2024-06-01", rev.Date.Format(domain.DateLayout))

	updated, err = suite.service.UpdateRevisionStatus(suite.ctx, project.ID, rev.ID, domain.RevisionCompleted, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.RevisionCompleted, updated.Revisions[0].Status)

	_, err = suite.service.UpdateRevisionStatus(suite.ctx, project.ID, "REV-404", domain.RevisionCompleted, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.service.UpdateRevisionStatus(suite.ctx, project.ID, rev.ID, "DONE", "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestListProjects_NewestFirst() {
	for _, date := range []string{"2024-07-01", "2024-09-01", "2024-08-01"} {
		_, err := suite.service.CreateProject(suite.ctx, dto.CreateProjectRequest{ProjectName: date, ClientID: "CLI001", Date: date}, "admin")
		suite.Require().NoError(err)
	}

	projects, err := suite.service.ListProjects(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(projects, 3)
	suite.Equal("2024-09-01", projects[0].ProjectName)
	suite.Equal("2024-07-01", projects[2].ProjectName)
}
