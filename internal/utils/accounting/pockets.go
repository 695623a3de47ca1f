package accounting

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Ledger is the input every pocket derivation reads from.
type Ledger struct {
	Transactions []domain.Transaction
	Members      []domain.TeamMember
}

// PocketStrategy derives a pocket's amount from the ledger.
type PocketStrategy interface {
	Amount(pocket domain.FinancialPocket, ledger Ledger) decimal.Decimal
}

// TransactionFold adds CREDIT and subtracts DEBIT flows tagged with the pocket.
type TransactionFold struct{}

func (TransactionFold) Amount(pocket domain.FinancialPocket, ledger Ledger) decimal.Decimal {
	amount := decimal.Zero
	for _, t := range ledger.Transactions {
		if t.PocketID != pocket.ID {
			continue
		}
		direction := t.FlowDirection
		if direction == "" {
			direction = domain.InferFlowDirection(t.Description)
		}
		if direction == domain.FlowCredit {
			amount = amount.Add(t.Amount)
		} else {
			amount = amount.Sub(t.Amount)
		}
	}
	return amount
}

// RewardPool is the total outstanding reward balance of the whole team.
type RewardPool struct{}

func (RewardPool) Amount(_ domain.FinancialPocket, ledger Ledger) decimal.Decimal {
	entries := RewardLedger(ledger.Transactions)
	total := decimal.Zero
	for _, m := range ledger.Members {
		total = total.Add(TeamMemberRewardBalance(m, entries))
	}
	return total
}

var pocketStrategies = map[domain.PocketType]PocketStrategy{
	domain.PocketSaving:     TransactionFold{},
	domain.PocketLocked:     TransactionFold{},
	domain.PocketExpense:    TransactionFold{},
	domain.PocketRewardPool: RewardPool{},
}

// StrategyFor selects the derivation for a pocket type. Unknown types fold transactions.
func StrategyFor(t domain.PocketType) PocketStrategy {
	if s, ok := pocketStrategies[t]; ok {
		return s
	}
	return TransactionFold{}
}

// PocketAmount derives a pocket's amount using the strategy of its type.
func PocketAmount(pocket domain.FinancialPocket, ledger Ledger) decimal.Decimal {
	return StrategyFor(pocket.Type).Amount(pocket, ledger)
}
