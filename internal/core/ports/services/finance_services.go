package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// TransactionSvc records and lists ledger transactions. Every write refreshes
// the cached projections it affects in the same change set.
type TransactionSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}

// CardSvc manages cards and cash accounts.
type CardSvc interface {
	CreateCard(ctx context.Context, req dto.CreateCardRequest, userID string) (*domain.Card, error)
	ListCards(ctx context.Context) ([]domain.Card, error)
	GetCard(ctx context.Context, cardID string) (*domain.Card, error)
}

// PocketSvc manages financial pockets.
type PocketSvc interface {
	CreatePocket(ctx context.Context, req dto.CreatePocketRequest, userID string) (*domain.FinancialPocket, error)
	ListPockets(ctx context.Context) ([]domain.FinancialPocket, error)
	GetPocket(ctx context.Context, pocketID string) (*domain.FinancialPocket, error)
	TransferToPocket(ctx context.Context, pocketID string, req dto.TransferToPocketRequest, userID string) (*dto.TransferResponse, error)
}

// LedgerSvc exposes aggregate views and maintenance of the derived state.
type LedgerSvc interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, error)

	// Reconcile recomputes every cached projection from the log and returns
	// the number of records rewritten.
	Reconcile(ctx context.Context, userID string) (int, error)
}

// FinanceSvcFacade combines all finance-related service interfaces
type FinanceSvcFacade interface {
	TransactionSvc
	CardSvc
	PocketSvc
	LedgerSvc
}
