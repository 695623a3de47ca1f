package accounting

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
)

// Snapshot is the part of the store the cached projections depend on.
type Snapshot struct {
	Transactions []domain.Transaction
	Projects     []domain.Project
	Cards        []domain.Card
	Pockets      []domain.FinancialPocket
	Members      []domain.TeamMember
}

// Stale holds the records whose cached projection no longer matches the log,
// already carrying the recomputed values.
type Stale struct {
	Projects []domain.Project
	Cards    []domain.Card
	Pockets  []domain.FinancialPocket
	Members  []domain.TeamMember
}

// Len is the number of records that need rewriting.
func (s Stale) Len() int {
	return len(s.Projects) + len(s.Cards) + len(s.Pockets) + len(s.Members)
}

// StaleProjections recomputes every cached projection in the snapshot and
// returns the records that changed.
func StaleProjections(s Snapshot) Stale {
	var out Stale

	for _, p := range s.Projects {
		paid, status := ProjectPaymentState(p, s.Transactions)
		if !paid.Equal(p.AmountPaid) || status != p.PaymentStatus {
			p.AmountPaid, p.PaymentStatus = paid, status
			out.Projects = append(out.Projects, p)
		}
	}

	for _, c := range s.Cards {
		balance := CardBalance(c, s.Transactions)
		if !balance.Equal(c.Balance) {
			c.Balance = balance
			out.Cards = append(out.Cards, c)
		}
	}

	entries := RewardLedger(s.Transactions)
	for _, m := range s.Members {
		balance := TeamMemberRewardBalance(m, entries)
		if !balance.Equal(m.RewardBalance) {
			m.RewardBalance = balance
			out.Members = append(out.Members, m)
		}
	}

	ledger := Ledger{Transactions: s.Transactions, Members: s.Members}
	for _, p := range s.Pockets {
		amount := PocketAmount(p, ledger)
		if !amount.Equal(p.Amount) {
			p.Amount = amount
			out.Pockets = append(out.Pockets, p)
		}
	}

	return out
}
