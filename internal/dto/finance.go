package dto

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// FlowDirection may be omitted, in which case it is inferred from the description.
type CreateTransactionRequest struct {
	Date           string                 `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description    string                 `json:"description" binding:"required,max=500"`
	Amount         decimal.Decimal        `json:"amount" swaggertype:"string"`
	Type           domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category       string                 `json:"category" binding:"required,max=100"`
	Method         string                 `json:"method" binding:"max=100"`
	ProjectID      string                 `json:"projectId"`
	CardID         string                 `json:"cardId"`
	PocketID       string                 `json:"pocketId"`
	FlowDirection  domain.FlowDirection   `json:"flowDirection" binding:"omitempty,oneof=CREDIT DEBIT"`
	CounterpartyID string                 `json:"counterpartyId"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
	ProjectID string `form:"projectId"`
	CardID    string `form:"cardId"`
	PocketID  string `form:"pocketId"`
	Type      string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
}

// ListTransactionsResponse is one page of transactions, newest first.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// CreateCardRequest defines the data needed to register a card or account.
type CreateCardRequest struct {
	CardHolderName string          `json:"cardHolderName" binding:"required,max=200"`
	BankName       string          `json:"bankName" binding:"required,max=100"`
	CardType       domain.CardType `json:"cardType" binding:"required,oneof=PRABAYAR KREDIT DEBIT"`
	LastFourDigits string          `json:"lastFourDigits" binding:"omitempty,len=4,numeric"`
	ExpiryDate     string          `json:"expiryDate" binding:"max=7"`
}

// CreatePocketRequest defines the data needed to create a pocket.
type CreatePocketRequest struct {
	Name         string            `json:"name" binding:"required,max=200"`
	Description  string            `json:"description" binding:"max=500"`
	Type         domain.PocketType `json:"type" binding:"required,oneof=SAVING LOCKED EXPENSE REWARD_POOL"`
	GoalAmount   *decimal.Decimal  `json:"goalAmount" swaggertype:"string"`
	LockEndDate  string            `json:"lockEndDate" binding:"omitempty,datetime=2006-01-02"`
	SourceCardID string            `json:"sourceCardId"`
}

// TransferToPocketRequest moves money from a card into a pocket.
type TransferToPocketRequest struct {
	CardID string          `json:"cardId" binding:"required"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Date   string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TransferResponse lists the records a pocket transfer touched.
type TransferResponse struct {
	Transactions []domain.Transaction   `json:"transactions"`
	Card         domain.Card            `json:"card"`
	Pocket       domain.FinancialPocket `json:"pocket"`
}

// SummaryResponse aggregates the ledger.
type SummaryResponse struct {
	TotalIncome            decimal.Decimal `json:"totalIncome" swaggertype:"string"`
	TotalExpense           decimal.Decimal `json:"totalExpense" swaggertype:"string"`
	Net                    decimal.Decimal `json:"net" swaggertype:"string"`
	TotalCardBalance       decimal.Decimal `json:"totalCardBalance" swaggertype:"string"`
	TotalPocketAmount      decimal.Decimal `json:"totalPocketAmount" swaggertype:"string"`
	OutstandingFromClients decimal.Decimal `json:"outstandingFromClients" swaggertype:"string"`
}

// ReconcileResponse reports how many cached projections were rewritten.
type ReconcileResponse struct {
	Updated int `json:"updated"`
}
