package accounting

import (
	"sort"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentStatusFor classifies a paid amount against a total cost.
// Nothing paid is always BELUM_BAYAR, even for a zero-cost project.
func PaymentStatusFor(amountPaid, totalCost decimal.Decimal) domain.PaymentStatus {
	switch {
	case !amountPaid.IsPositive():
		return domain.PaymentUnpaid
	case amountPaid.GreaterThanOrEqual(totalCost):
		return domain.PaymentSettled
	default:
		return domain.PaymentDownPayment
	}
}

// ProjectPaymentState folds the INCOME transactions of a project.
func ProjectPaymentState(project domain.Project, txns []domain.Transaction) (decimal.Decimal, domain.PaymentStatus) {
	paid := decimal.Zero
	for _, t := range txns {
		if t.ProjectID == project.ID && t.Type == domain.Income {
			paid = paid.Add(t.Amount)
		}
	}
	return paid, PaymentStatusFor(paid, project.TotalCost)
}

// CardBalance is the signed sum of a card's transactions.
func CardBalance(card domain.Card, txns []domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txns {
		if t.CardID == card.ID {
			balance = balance.Add(t.SignedAmount())
		}
	}
	return balance
}

// RewardLedger derives reward entries from the transaction log. Grants are
// positive, withdrawals negative. Transactions without a counterparty cannot
// be attributed and are left out; see OrphanRewardTransactions.
func RewardLedger(txns []domain.Transaction) []domain.RewardLedgerEntry {
	entries := make([]domain.RewardLedgerEntry, 0)
	for _, t := range txns {
		if !t.IsRewardMovement() || t.CounterpartyID == "" {
			continue
		}
		amount := t.Amount
		if t.Category == domain.CategoryRewardWithdrawal {
			amount = amount.Neg()
		}
		entries = append(entries, domain.RewardLedgerEntry{
			ID:            "RLE-" + t.ID,
			TeamMemberID:  t.CounterpartyID,
			Date:          t.Date,
			Description:   t.Description,
			Amount:        amount,
			ProjectID:     t.ProjectID,
			TransactionID: t.ID,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// OrphanRewardTransactions lists reward transactions that name no counterparty.
func OrphanRewardTransactions(txns []domain.Transaction) []string {
	var ids []string
	for _, t := range txns {
		if t.IsRewardMovement() && t.CounterpartyID == "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// TeamMemberRewardBalance sums the signed entries belonging to a member.
func TeamMemberRewardBalance(member domain.TeamMember, entries []domain.RewardLedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.TeamMemberID == member.ID {
			balance = balance.Add(e.Amount)
		}
	}
	return balance
}

// Totals returns gross income and gross expense over the log.
func Totals(txns []domain.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case domain.Income:
			income = income.Add(t.Amount)
		case domain.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
