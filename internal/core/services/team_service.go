package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	payoutMethod = "Transfer Bank"
	rewardMethod = "Sistem"
)

type teamService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewTeamService creates a new team service.
func NewTeamService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.TeamSvcFacade {
	return &teamService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.TeamSvcFacade = (*teamService)(nil)

func (s *teamService) CreateTeamMember(ctx context.Context, req dto.CreateTeamMemberRequest, userID string) (*domain.TeamMember, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: member name is required", apperrors.ErrValidation)
	}
	if req.StandardFee.IsNegative() {
		return nil, fmt.Errorf("%w: standard fee cannot be negative", apperrors.ErrValidation)
	}

	member := domain.TeamMember{
		ID:            newID("TM"),
		Name:          name,
		Role:          req.Role,
		Email:         req.Email,
		Phone:         req.Phone,
		StandardFee:   req.StandardFee,
		RewardBalance: decimal.Zero,
	}
	member.Stamp(actorOrSystem(userID), s.Now())

	if err := s.repos.TeamMemberRepo.Insert(ctx, &member); err != nil {
		s.LogError(ctx, err, "Failed to create team member", slog.String("member_name", name))
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	s.LogInfo(ctx, "Team member created", slog.String("member_id", member.ID))
	return &member, nil
}

// ListTeamMembers returns the roster with reward balances read from the log.
func (s *teamService) ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	members, err := s.repos.TeamMemberRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list team members")
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	txns, err := s.repos.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	entries := accounting.RewardLedger(txns)
	for i := range members {
		members[i].RewardBalance = accounting.TeamMemberRewardBalance(members[i], entries)
	}
	return members, nil
}

func (s *teamService) RewardLedger(ctx context.Context, memberID string) (*dto.RewardLedgerResponse, error) {
	member, err := s.repos.TeamMemberRepo.Get(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team member %s: %w", memberID, err)
	}
	txns, err := s.repos.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	all := accounting.RewardLedger(txns)
	resp := &dto.RewardLedgerResponse{
		TeamMemberID: member.ID,
		Balance:      accounting.TeamMemberRewardBalance(*member, all),
		Entries:      make([]domain.RewardLedgerEntry, 0),
	}
	for _, e := range all {
		if e.TeamMemberID == member.ID {
			resp.Entries = append(resp.Entries, e)
		}
	}
	return resp, nil
}

func (s *teamService) ListTeamPayments(ctx context.Context, params dto.ListTeamPaymentsParams) ([]domain.TeamProjectPayment, error) {
	all, err := s.repos.TeamPaymentRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list team payments")
		return nil, fmt.Errorf("failed to list team payments: %w", err)
	}
	out := make([]domain.TeamProjectPayment, 0, len(all))
	for _, p := range all {
		if params.ProjectID != "" && p.ProjectID != params.ProjectID {
			continue
		}
		if params.Status != "" && string(p.Status) != params.Status {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// PayTeamPayment pays the fee from a card and, when the assignment carried a
// reward, grants it to the member's reward balance. Transaction ids derive
// from the payment id so a payment can never be paid twice.
func (s *teamService) PayTeamPayment(ctx context.Context, paymentID string, req dto.PayTeamPaymentRequest, userID string) (*dto.PayTeamPaymentResponse, error) {
	return withLedger(ctx, &s.BaseService, "pay team payment", func() (*dto.PayTeamPaymentResponse, error) {
		return s.payTeamPayment(ctx, paymentID, req, userID)
	})
}

func (s *teamService) payTeamPayment(ctx context.Context, paymentID string, req dto.PayTeamPaymentRequest, userID string) (*dto.PayTeamPaymentResponse, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	payment, err := s.repos.TeamPaymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team payment %s: %w", paymentID, err)
	}
	if payment.Status == domain.TeamPaymentPaid {
		return nil, fmt.Errorf("%w: team payment %s is already paid", apperrors.ErrValidation, paymentID)
	}
	if !payment.Fee.IsPositive() {
		return nil, fmt.Errorf("%w: team payment %s has no fee to pay", apperrors.ErrValidation, paymentID)
	}
	date, err := dateOr(req.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	projectName := payment.ProjectID
	if project, ok := state.project(payment.ProjectID); ok {
		projectName = project.ProjectName
	}

	fee := domain.Transaction{
		ID:             "TRN-FEE-" + payment.ID,
		Date:           date,
		Description:    fmt.Sprintf("Gaji Freelancer %s - %s", payment.TeamMemberName, projectName),
		Amount:         payment.Fee,
		Type:           domain.Expense,
		Category:       domain.CategoryFreelancerFee,
		Method:         payoutMethod,
		ProjectID:      payment.ProjectID,
		CardID:         req.CardID,
		PocketID:       req.PocketID,
		CounterpartyID: payment.TeamMemberID,
	}
	fee.FlowDirection = domain.InferFlowDirection(fee.Description)
	if err := state.checkReferences(fee, now); err != nil {
		return nil, err
	}
	fee.Stamp(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(&fee); err != nil {
		return nil, err
	}
	state.addTransaction(fee)

	var reward *domain.Transaction
	if payment.Reward.IsPositive() {
		reward = &domain.Transaction{
			ID:             "TRN-RWD-" + payment.ID,
			Date:           date,
			Description:    fmt.Sprintf("Hadiah untuk %s (Proyek: %s)", payment.TeamMemberName, projectName),
			Amount:         payment.Reward,
			Type:           domain.Expense,
			Category:       domain.CategoryReward,
			Method:         rewardMethod,
			ProjectID:      payment.ProjectID,
			FlowDirection:  domain.FlowDebit,
			CounterpartyID: payment.TeamMemberID,
		}
		if err := state.checkReferences(*reward, now); err != nil {
			return nil, err
		}
		reward.Stamp(actor, now)
		if err := cs.Insert(reward); err != nil {
			return nil, err
		}
		state.addTransaction(*reward)
	}

	paid := *payment
	paid.Status = domain.TeamPaymentPaid
	paid.Touch(actor, now)
	if err := cs.UpdateVersioned(&paid); err != nil {
		return nil, err
	}

	if _, err := state.stageStale(cs, actor, now); err != nil {
		return nil, err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to pay team payment", slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to pay team payment %s: %w", paymentID, err)
	}
	paid.Version++

	s.events.TransactionRecorded(fee.Type)
	if reward != nil {
		s.events.TransactionRecorded(reward.Type)
	}
	s.LogInfo(ctx, "Team payment paid",
		slog.String("payment_id", paymentID),
		slog.String("member_id", payment.TeamMemberID),
		slog.String("fee", payment.Fee.String()))

	return &dto.PayTeamPaymentResponse{
		Payment:           paid,
		Transaction:       fee,
		RewardTransaction: reward,
	}, nil
}
