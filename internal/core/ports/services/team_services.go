package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// TeamSvcFacade manages freelancers, their rewards and their project payments.
type TeamSvcFacade interface {
	CreateTeamMember(ctx context.Context, req dto.CreateTeamMemberRequest, userID string) (*domain.TeamMember, error)
	ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error)
	RewardLedger(ctx context.Context, memberID string) (*dto.RewardLedgerResponse, error)
	ListTeamPayments(ctx context.Context, params dto.ListTeamPaymentsParams) ([]domain.TeamProjectPayment, error)

	// PayTeamPayment records the fee as an expense and marks the payment Paid.
	PayTeamPayment(ctx context.Context, paymentID string, req dto.PayTeamPaymentRequest, userID string) (*dto.PayTeamPaymentResponse, error)
}
