package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type projectService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewProjectService creates a new project service.
func NewProjectService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, userID string) (*domain.Project, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	name := strings.TrimSpace(req.ProjectName)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrValidation)
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil || date.IsZero() {
		return nil, fmt.Errorf("%w: a valid project date is required", apperrors.ErrValidation)
	}
	deadline, err := optionalDate(req.DeadlineDate)
	if err != nil {
		return nil, err
	}
	if req.TotalCost.IsNegative() {
		return nil, fmt.Errorf("%w: total cost cannot be negative", apperrors.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = domain.ProjectPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, status)
	}

	client, err := s.repos.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client %s: %w", req.ClientID, err)
	}

	project := domain.Project{
		ID:           newID("PRJ"),
		ProjectName:  name,
		ClientID:     client.ID,
		ClientName:   client.Name,
		ProjectType:  req.ProjectType,
		AddOns:       []domain.AddOn{},
		Date:         date,
		DeadlineDate: deadline,
		Location:     req.Location,
		Status:       status,
		Progress:     domain.ProgressForStatus(status),
		TotalCost:    req.TotalCost,
		Notes:        req.Notes,
	}

	if req.PackageID != "" {
		pkg, err := s.repos.PackageRepo.Get(ctx, req.PackageID)
		if err != nil {
			return nil, fmt.Errorf("failed to load package %s: %w", req.PackageID, err)
		}
		project.PackageID, project.PackageName = pkg.ID, pkg.Name
		subtotal := pkg.Price
		for _, id := range req.AddOnIDs {
			addOn, err := s.repos.AddOnRepo.Get(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load add-on %s: %w", id, err)
			}
			project.AddOns = append(project.AddOns, *addOn)
			subtotal = subtotal.Add(addOn.Price)
		}
		if project.TotalCost.IsZero() {
			project.TotalCost = subtotal
		}
	}
	project.AmountPaid = decimal.Zero
	project.PaymentStatus = accounting.PaymentStatusFor(project.AmountPaid, project.TotalCost)

	members, err := s.repos.TeamMemberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	project.Team, err = buildTeam(req.Team, members)
	if err != nil {
		return nil, err
	}
	project.Stamp(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(&project); err != nil {
		return nil, err
	}
	if err := syncTeamPayments(cs, project, nil, actor, now); err != nil {
		return nil, err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to create project", slog.String("client_id", client.ID))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ID), slog.Int("team_size", len(project.Team)))
	return &project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, userID string) (*domain.Project, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	current, err := s.repos.ProjectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}
	project := *current

	if req.ProjectName != nil {
		name := strings.TrimSpace(*req.ProjectName)
		if name == "" {
			return nil, fmt.Errorf("%w: project name cannot be empty", apperrors.ErrValidation)
		}
		project.ProjectName = name
	}
	if req.ProjectType != nil {
		project.ProjectType = *req.ProjectType
	}
	if req.Date != nil {
		date, err := domain.ParseDate(*req.Date)
		if err != nil || date.IsZero() {
			return nil, fmt.Errorf("%w: invalid project date", apperrors.ErrValidation)
		}
		project.Date = date
	}
	if req.DeadlineDate != nil {
		project.DeadlineDate, err = optionalDate(*req.DeadlineDate)
		if err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}

	var payments []domain.TeamProjectPayment
	if req.Team != nil {
		members, err := s.repos.TeamMemberRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load team members: %w", err)
		}
		project.Team, err = buildTeam(*req.Team, members)
		if err != nil {
			return nil, err
		}
		payments, err = s.paymentsOf(ctx, project.ID)
		if err != nil {
			return nil, err
		}
	}
	project.Touch(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.UpdateVersioned(&project); err != nil {
		return nil, err
	}
	if req.Team != nil {
		if err := syncTeamPayments(cs, project, payments, actor, now); err != nil {
			return nil, err
		}
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}
	project.Version++
	return &project, nil
}

func (s *projectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.repos.ProjectRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Date.After(projects[j].Date)
	})
	return projects, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.repos.ProjectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}
	return project, nil
}

func (s *projectService) MoveProject(ctx context.Context, projectID string, req dto.MoveProjectRequest, userID string) (*domain.Project, error) {
	now := s.Now()
	updated, err := s.repos.ProjectRepo.Update(ctx, projectID, func(p *domain.Project) error {
		if err := p.MoveTo(req.Status, req.SubStatus, req.ShippingDetails); err != nil {
			return err
		}
		p.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to move project", slog.String("project_id", projectID), slog.String("status", string(req.Status)))
		return nil, fmt.Errorf("failed to move project %s: %w", projectID, err)
	}
	s.LogInfo(ctx, "Project moved", slog.String("project_id", projectID), slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID string, userID string) error {
	return s.writeLedger(ctx, "delete project", func() error {
		return s.deleteProject(ctx, projectID, userID)
	})
}

func (s *projectService) deleteProject(ctx context.Context, projectID string, userID string) error {
	actor := actorOrSystem(userID)
	now := s.Now()

	if _, err := s.repos.ProjectRepo.Get(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	payments, err := s.paymentsOf(ctx, projectID)
	if err != nil {
		return err
	}
	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return err
	}

	cs := portsrepo.NewChangeSet()
	for _, p := range payments {
		cs.Remove(domain.KindTeamProjectPayment, p.ID)
	}
	removed := state.removeTransactions(func(t domain.Transaction) bool { return t.ProjectID == projectID })
	for _, t := range removed {
		cs.Remove(domain.KindTransaction, t.ID)
	}
	cs.Remove(domain.KindProject, projectID)
	state.removeProject(projectID)

	if _, err := state.stageStale(cs, actor, now); err != nil {
		return err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to delete project", slog.String("project_id", projectID))
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	s.LogInfo(ctx, "Project deleted",
		slog.String("project_id", projectID),
		slog.Int("transactions_removed", len(removed)),
		slog.Int("payments_removed", len(payments)))
	return nil
}

func (s *projectService) AddRevision(ctx context.Context, projectID string, req dto.AddRevisionRequest, userID string) (*domain.Project, error) {
	deadline, err := domain.ParseDate(req.Deadline)
	if err != nil || deadline.IsZero() {
		return nil, fmt.Errorf("%w: a valid revision deadline is required", apperrors.ErrValidation)
	}
	if _, err := s.repos.TeamMemberRepo.Get(ctx, req.FreelancerID); err != nil {
		return nil, fmt.Errorf("failed to load freelancer %s: %w", req.FreelancerID, err)
	}

	now := s.Now()
	updated, err := s.repos.ProjectRepo.Update(ctx, projectID, func(p *domain.Project) error {
		p.Revisions = append(p.Revisions, domain.Revision{
			ID:           newID("REV"),
			Date:         domain.Today(now),
			AdminNotes:   req.AdminNotes,
			Deadline:     deadline,
			FreelancerID: req.FreelancerID,
			Status:       domain.RevisionPending,
		})
		p.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add revision", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to add revision to project %s: %w", projectID, err)
	}
	return updated, nil
}

func (s *projectService) UpdateRevisionStatus(ctx context.Context, projectID, revisionID string, status domain.RevisionStatus, userID string) (*domain.Project, error) {
	switch status {
	case domain.RevisionPending, domain.RevisionInProgress, domain.RevisionCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown revision status %q", apperrors.ErrValidation, status)
	}

	now := s.Now()
	updated, err := s.repos.ProjectRepo.Update(ctx, projectID, func(p *domain.Project) error {
		for i := range p.Revisions {
			if p.Revisions[i].ID == revisionID {
				p.Revisions[i].Status = status
				p.Touch(actorOrSystem(userID), now)
				return nil
			}
		}
		return fmt.Errorf("%w: revision %s", apperrors.ErrNotFound, revisionID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update revision %s: %w", revisionID, err)
	}
	return updated, nil
}

func (s *projectService) paymentsOf(ctx context.Context, projectID string) ([]domain.TeamProjectPayment, error) {
	all, err := s.repos.TeamPaymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load team payments: %w", err)
	}
	out := make([]domain.TeamProjectPayment, 0)
	for _, p := range all {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

// buildTeam resolves assignment requests against the roster. Fee and role
// default to the member's standard values.
func buildTeam(reqs []dto.TeamAssignmentRequest, members []domain.TeamMember) ([]domain.ProjectTeamAssignment, error) {
	byID := make(map[string]domain.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	team := make([]domain.ProjectTeamAssignment, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		m, ok := byID[r.MemberID]
		if !ok {
			return nil, fmt.Errorf("%w: team member %s", apperrors.ErrNotFound, r.MemberID)
		}
		if seen[r.MemberID] {
			return nil, fmt.Errorf("%w: team member %s assigned twice", apperrors.ErrValidation, r.MemberID)
		}
		if r.Fee.IsNegative() || r.Reward.IsNegative() {
			return nil, fmt.Errorf("%w: fee and reward cannot be negative", apperrors.ErrValidation)
		}
		seen[r.MemberID] = true

		a := domain.ProjectTeamAssignment{
			MemberID: m.ID,
			Name:     m.Name,
			Role:     r.Role,
			Fee:      r.Fee,
			Reward:   r.Reward,
		}
		if a.Role == "" {
			a.Role = m.Role
		}
		if a.Fee.IsZero() {
			a.Fee = m.StandardFee
		}
		team = append(team, a)
	}
	return team, nil
}

// syncTeamPayments makes the project's payments match its team. Paid
// payments are history and are never rewritten or removed.
func syncTeamPayments(cs *portsrepo.ChangeSet, project domain.Project, existing []domain.TeamProjectPayment, actor string, now time.Time) error {
	byID := make(map[string]domain.TeamProjectPayment, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}

	wanted := make(map[string]bool, len(project.Team))
	for _, a := range project.Team {
		id := domain.TeamProjectPaymentID(project.ID, a.MemberID)
		wanted[id] = true

		payment, found := byID[id]
		if found && payment.Status == domain.TeamPaymentPaid {
			continue
		}
		payment.ID = id
		payment.ProjectID = project.ID
		payment.TeamMemberID = a.MemberID
		payment.TeamMemberName = a.Name
		payment.Date = project.Date
		payment.Status = domain.TeamPaymentUnpaid
		payment.Fee = a.Fee
		payment.Reward = a.Reward

		var err error
		if found {
			payment.Touch(actor, now)
			err = cs.UpdateVersioned(&payment)
		} else {
			payment.Stamp(actor, now)
			err = cs.Insert(&payment)
		}
		if err != nil {
			return err
		}
	}

	for _, p := range existing {
		if !wanted[p.ID] && p.Status != domain.TeamPaymentPaid {
			cs.Remove(domain.KindTeamProjectPayment, p.ID)
		}
	}
	return nil
}

func optionalDate(value string) (*time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if d.IsZero() {
		return nil, nil
	}
	return &d, nil
}
