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
	"github.com/SscSPs/studio_ops_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	transferMethod      = "Sistem"
	defaultPageSize     = 50
	transferDescription = "Setor ke "
)

type financeService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewFinanceService creates the ledger service. All balance-affecting writes
// go through a single change set together with the projections they refresh.
func NewFinanceService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.FinanceSvcFacade {
	return &financeService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func (s *financeService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return withLedger(ctx, &s.BaseService, "create transaction", func() (*domain.Transaction, error) {
		return s.createTransaction(ctx, req, userID)
	})
}

func (s *financeService) createTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if req.Type != domain.Income && req.Type != domain.Expense {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	date, err := dateOr(req.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		ID:             newID("TRN"),
		Date:           date,
		Description:    strings.TrimSpace(req.Description),
		Amount:         req.Amount,
		Type:           req.Type,
		Category:       req.Category,
		Method:         req.Method,
		ProjectID:      req.ProjectID,
		CardID:         req.CardID,
		PocketID:       req.PocketID,
		FlowDirection:  req.FlowDirection,
		CounterpartyID: req.CounterpartyID,
	}
	if txn.FlowDirection == "" {
		txn.FlowDirection = domain.InferFlowDirection(txn.Description)
	}
	if err := state.checkReferences(txn, now); err != nil {
		return nil, err
	}
	txn.Stamp(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(&txn); err != nil {
		return nil, err
	}
	state.addTransaction(txn)
	if _, err := state.stageStale(cs, actor, now); err != nil {
		return nil, err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to record transaction", slog.String("category", txn.Category))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	s.events.TransactionRecorded(txn.Type)
	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.ID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()),
		slog.Int("projections_refreshed", cs.Len()-1))
	txn.Version = 1
	return &txn, nil
}

// checkReferences validates the links a transaction carries against the state.
func (l *ledgerState) checkReferences(t domain.Transaction, now time.Time) error {
	if t.ProjectID != "" {
		if _, ok := l.project(t.ProjectID); !ok {
			return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, t.ProjectID)
		}
	}
	if t.CardID != "" {
		if _, ok := l.card(t.CardID); !ok {
			return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, t.CardID)
		}
	}
	if t.PocketID != "" {
		pocket, ok := l.pocket(t.PocketID)
		if !ok {
			return fmt.Errorf("%w: pocket %s", apperrors.ErrNotFound, t.PocketID)
		}
		if pocket.Type == domain.PocketRewardPool {
			return fmt.Errorf("%w: pocket %s is derived from reward balances", apperrors.ErrValidation, pocket.ID)
		}
		if t.FlowDirection == domain.FlowDebit && pocket.IsLocked(now) {
			return fmt.Errorf("%w: pocket %s is locked until %s", apperrors.ErrValidation,
				pocket.ID, pocket.LockEndDate.Format(domain.DateLayout))
		}
	}
	if t.IsRewardMovement() && t.CounterpartyID == "" {
		return fmt.Errorf("%w: category %q requires a team member as counterparty", apperrors.ErrValidation, t.Category)
	}
	if t.CounterpartyID != "" {
		if _, ok := l.member(t.CounterpartyID); !ok {
			return fmt.Errorf("%w: team member %s", apperrors.ErrNotFound, t.CounterpartyID)
		}
	}
	return nil
}

func (s *financeService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var cursor *domain.Transaction
	if params.NextToken != "" {
		c, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		t := cursorTransaction(c)
		cursor = &t
	}

	all, err := s.repos.TransactionRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	filtered := make([]domain.Transaction, 0, len(all))
	for _, t := range all {
		if params.ProjectID != "" && t.ProjectID != params.ProjectID {
			continue
		}
		if params.CardID != "" && t.CardID != params.CardID {
			continue
		}
		if params.PocketID != "" && t.PocketID != params.PocketID {
			continue
		}
		if params.Type != "" && string(t.Type) != params.Type {
			continue
		}
		if cursor != nil && !newerThan(*cursor, t) {
			continue
		}
		filtered = append(filtered, t)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return newerThan(filtered[i], filtered[j]) })

	resp := &dto.ListTransactionsResponse{Transactions: filtered}
	if len(filtered) > limit {
		resp.Transactions = filtered[:limit]
		token := transactionCursor(resp.Transactions[limit-1]).Encode()
		resp.NextToken = &token
	}
	return resp, nil
}

// newerThan orders transactions newest first: by date, then creation time, then id.
func newerThan(a, b domain.Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func transactionCursor(t domain.Transaction) pagination.Cursor {
	return pagination.Cursor{Date: t.Date, CreatedAt: t.CreatedAt, ID: t.ID}
}

func cursorTransaction(c pagination.Cursor) domain.Transaction {
	t := domain.Transaction{ID: c.ID, Date: c.Date}
	t.CreatedAt = c.CreatedAt
	return t
}

func (s *financeService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	return s.writeLedger(ctx, "delete transaction", func() error {
		return s.deleteTransaction(ctx, transactionID, userID)
	})
}

func (s *financeService) deleteTransaction(ctx context.Context, transactionID string, userID string) error {
	actor := actorOrSystem(userID)
	now := s.Now()

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return err
	}
	removed := state.removeTransactions(func(t domain.Transaction) bool { return t.ID == transactionID })
	if len(removed) == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}

	cs := portsrepo.NewChangeSet()
	cs.Remove(domain.KindTransaction, transactionID)
	if _, err := state.stageStale(cs, actor, now); err != nil {
		return err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *financeService) CreateCard(ctx context.Context, req dto.CreateCardRequest, userID string) (*domain.Card, error) {
	switch req.CardType {
	case domain.CardPrepaid, domain.CardCredit, domain.CardDebit:
	default:
		return nil, fmt.Errorf("%w: unknown card type %q", apperrors.ErrValidation, req.CardType)
	}
	now := s.Now()
	card := domain.Card{
		ID:             newID("CARD"),
		CardHolderName: req.CardHolderName,
		BankName:       req.BankName,
		CardType:       req.CardType,
		LastFourDigits: req.LastFourDigits,
		ExpiryDate:     req.ExpiryDate,
		Balance:        decimal.Zero,
	}
	card.Stamp(actorOrSystem(userID), now)

	if err := s.repos.CardRepo.Insert(ctx, &card); err != nil {
		s.LogError(ctx, err, "Failed to create card", slog.String("bank", req.BankName))
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	s.LogInfo(ctx, "Card created", slog.String("card_id", card.ID))
	return &card, nil
}

func (s *financeService) ListCards(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.repos.CardRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cards")
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (s *financeService) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := s.repos.CardRepo.Get(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", cardID, err)
	}
	return card, nil
}

func (s *financeService) CreatePocket(ctx context.Context, req dto.CreatePocketRequest, userID string) (*domain.FinancialPocket, error) {
	return withLedger(ctx, &s.BaseService, "create pocket", func() (*domain.FinancialPocket, error) {
		return s.createPocket(ctx, req, userID)
	})
}

func (s *financeService) createPocket(ctx context.Context, req dto.CreatePocketRequest, userID string) (*domain.FinancialPocket, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown pocket type %q", apperrors.ErrValidation, req.Type)
	}
	if req.GoalAmount != nil && req.GoalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: goal amount cannot be negative", apperrors.ErrValidation)
	}
	lockEnd, err := optionalDate(req.LockEndDate)
	if err != nil {
		return nil, err
	}

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	if req.SourceCardID != "" {
		if _, ok := state.card(req.SourceCardID); !ok {
			return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, req.SourceCardID)
		}
	}

	pocket := domain.FinancialPocket{
		ID:           newID("POC"),
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Amount:       decimal.Zero,
		GoalAmount:   req.GoalAmount,
		LockEndDate:  lockEnd,
		SourceCardID: req.SourceCardID,
	}
	pocket.Stamp(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(&pocket); err != nil {
		return nil, err
	}
	// A new reward pool starts at the team's outstanding rewards.
	state.putPocket(pocket)
	if _, err := state.stageStale(cs, actor, now); err != nil {
		return nil, err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to create pocket", slog.String("pocket_name", req.Name))
		return nil, fmt.Errorf("failed to create pocket: %w", err)
	}
	created, _ := state.pocket(pocket.ID)
	created.Version = 1
	return &created, nil
}

func (s *financeService) ListPockets(ctx context.Context) ([]domain.FinancialPocket, error) {
	pockets, err := s.repos.PocketRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pockets")
		return nil, fmt.Errorf("failed to list pockets: %w", err)
	}
	return pockets, nil
}

func (s *financeService) GetPocket(ctx context.Context, pocketID string) (*domain.FinancialPocket, error) {
	pocket, err := s.repos.PocketRepo.Get(ctx, pocketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pocket %s: %w", pocketID, err)
	}
	return pocket, nil
}

// TransferToPocket moves money off a card into a pocket. The movement is one
// EXPENSE on the card tagged with the pocket as a CREDIT flow.
func (s *financeService) TransferToPocket(ctx context.Context, pocketID string, req dto.TransferToPocketRequest, userID string) (*dto.TransferResponse, error) {
	return withLedger(ctx, &s.BaseService, "transfer to pocket", func() (*dto.TransferResponse, error) {
		return s.transferToPocket(ctx, pocketID, req, userID)
	})
}

func (s *financeService) transferToPocket(ctx context.Context, pocketID string, req dto.TransferToPocketRequest, userID string) (*dto.TransferResponse, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	date, err := dateOr(req.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	pocket, ok := state.pocket(pocketID)
	if !ok {
		return nil, fmt.Errorf("%w: pocket %s", apperrors.ErrNotFound, pocketID)
	}
	card, ok := state.card(req.CardID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, req.CardID)
	}
	balance := accounting.CardBalance(card, state.Transactions)
	if card.CardType != domain.CardCredit && balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: card %s balance %s is below %s", apperrors.ErrValidation,
			card.ID, balance.String(), req.Amount.String())
	}

	txn := domain.Transaction{
		ID:            newID("TRN"),
		Date:          date,
		Description:   transferDescription + pocket.Name,
		Amount:        req.Amount,
		Type:          domain.Expense,
		Category:      domain.CategoryInternalTransfer,
		Method:        transferMethod,
		CardID:        card.ID,
		PocketID:      pocket.ID,
		FlowDirection: domain.FlowCredit,
	}
	if err := state.checkReferences(txn, now); err != nil {
		return nil, err
	}
	txn.Stamp(actor, now)

	cs := portsrepo.NewChangeSet()
	if err := cs.Insert(&txn); err != nil {
		return nil, err
	}
	state.addTransaction(txn)
	if _, err := state.stageStale(cs, actor, now); err != nil {
		return nil, err
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to transfer to pocket", slog.String("pocket_id", pocketID), slog.String("card_id", req.CardID))
		return nil, fmt.Errorf("failed to transfer to pocket %s: %w", pocketID, err)
	}
	s.events.TransactionRecorded(txn.Type)

	card, _ = state.card(card.ID)
	pocket, _ = state.pocket(pocket.ID)
	return &dto.TransferResponse{
		Transactions: []domain.Transaction{txn},
		Card:         card,
		Pocket:       pocket,
	}, nil
}

// Summary reads every figure from the log so it is correct even when a cached
// projection is behind.
func (s *financeService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, err
	}

	income, expense := accounting.Totals(state.Transactions)
	resp := &dto.SummaryResponse{
		TotalIncome:            income,
		TotalExpense:           expense,
		Net:                    income.Sub(expense),
		TotalCardBalance:       decimal.Zero,
		TotalPocketAmount:      decimal.Zero,
		OutstandingFromClients: decimal.Zero,
	}
	for _, c := range state.Cards {
		resp.TotalCardBalance = resp.TotalCardBalance.Add(accounting.CardBalance(c, state.Transactions))
	}
	ledger := accounting.Ledger{Transactions: state.Transactions, Members: state.Members}
	for _, p := range state.Pockets {
		resp.TotalPocketAmount = resp.TotalPocketAmount.Add(accounting.PocketAmount(p, ledger))
	}
	for _, p := range state.Projects {
		if p.Status == domain.ProjectCancelled {
			continue
		}
		p.AmountPaid, _ = accounting.ProjectPaymentState(p, state.Transactions)
		resp.OutstandingFromClients = resp.OutstandingFromClients.Add(p.RemainingBalance())
	}
	return resp, nil
}

func (s *financeService) Reconcile(ctx context.Context, userID string) (int, error) {
	return withLedger(ctx, &s.BaseService, "reconcile", func() (int, error) {
		return s.reconcile(ctx, userID)
	})
}

func (s *financeService) reconcile(ctx context.Context, userID string) (int, error) {
	actor := actorOrSystem(userID)
	now := s.Now()

	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return 0, err
	}
	if orphans := accounting.OrphanRewardTransactions(state.Transactions); len(orphans) > 0 {
		s.GetLogger(ctx).Warn("Reward transactions without a counterparty are excluded from balances",
			slog.Any("transaction_ids", orphans))
	}

	cs := portsrepo.NewChangeSet()
	stale, err := state.stageStale(cs, actor, now)
	if err != nil {
		return 0, err
	}
	if cs.Len() == 0 {
		s.LogDebug(ctx, "Projections already match the transaction log")
		return 0, nil
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to reconcile projections")
		return 0, fmt.Errorf("failed to reconcile projections: %w", err)
	}
	s.LogInfo(ctx, "Projections reconciled",
		slog.Int("projects", len(stale.Projects)),
		slog.Int("cards", len(stale.Cards)),
		slog.Int("pockets", len(stale.Pockets)),
		slog.Int("members", len(stale.Members)))
	return stale.Len(), nil
}
