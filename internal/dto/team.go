package dto

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTeamMemberRequest defines the data needed to add a freelancer.
type CreateTeamMemberRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Role        string          `json:"role" binding:"required,max=100"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone" binding:"max=32"`
	StandardFee decimal.Decimal `json:"standardFee" swaggertype:"string"`
}

// RewardLedgerResponse is a team member's derived reward history.
type RewardLedgerResponse struct {
	TeamMemberID string                     `json:"teamMemberId"`
	Balance      decimal.Decimal            `json:"balance" swaggertype:"string"`
	Entries      []domain.RewardLedgerEntry `json:"entries"`
}

// ListTeamPaymentsParams filters team payments.
type ListTeamPaymentsParams struct {
	ProjectID string `form:"projectId"`
	Status    string `form:"status" binding:"omitempty,oneof=Paid Unpaid"`
}

// PayTeamPaymentRequest pays out a team project payment from a card.
type PayTeamPaymentRequest struct {
	CardID   string `json:"cardId" binding:"required"`
	PocketID string `json:"pocketId"`
	Date     string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// PayTeamPaymentResponse lists the records a payout touched. RewardTransaction
// is set when the assignment carried a reward.
type PayTeamPaymentResponse struct {
	Payment           domain.TeamProjectPayment `json:"payment"`
	Transaction       domain.Transaction        `json:"transaction"`
	RewardTransaction *domain.Transaction       `json:"rewardTransaction,omitempty"`
}
