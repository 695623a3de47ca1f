package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/utils/accounting"
)

// ledgerState is an in-memory copy of the records whose cached fields derive
// from the transaction log. Writers overlay their planned changes on it and
// then stage whatever projections went stale into the same change set.
type ledgerState struct {
	accounting.Snapshot
}

// loadLedgerState reads the cached records before the log. A transaction
// committed in between then either shows up in the log or has already bumped
// the version of every projection it touched, so staging against the read
// versions can never overwrite a fresher projection.
func loadLedgerState(ctx context.Context, repos portsrepo.RepositoryProvider) (*ledgerState, error) {
	projects, err := repos.ProjectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	cards, err := repos.CardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	pockets, err := repos.PocketRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pockets: %w", err)
	}
	members, err := repos.TeamMemberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	txns, err := repos.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return &ledgerState{Snapshot: accounting.Snapshot{
		Transactions: txns,
		Projects:     projects,
		Cards:        cards,
		Pockets:      pockets,
		Members:      members,
	}}, nil
}

func (l *ledgerState) addTransaction(t domain.Transaction) {
	l.Transactions = append(l.Transactions, t)
}

// removeTransactions drops every transaction matching keep == false and returns them.
func (l *ledgerState) removeTransactions(match func(domain.Transaction) bool) []domain.Transaction {
	var removed []domain.Transaction
	kept := l.Transactions[:0:0]
	for _, t := range l.Transactions {
		if match(t) {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	l.Transactions = kept
	return removed
}

func (l *ledgerState) putProject(p domain.Project) {
	for i := range l.Projects {
		if l.Projects[i].ID == p.ID {
			l.Projects[i] = p
			return
		}
	}
	l.Projects = append(l.Projects, p)
}

func (l *ledgerState) removeProject(id string) {
	kept := l.Projects[:0:0]
	for _, p := range l.Projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	l.Projects = kept
}

func (l *ledgerState) putCard(c domain.Card) {
	for i := range l.Cards {
		if l.Cards[i].ID == c.ID {
			l.Cards[i] = c
			return
		}
	}
	l.Cards = append(l.Cards, c)
}

func (l *ledgerState) putPocket(p domain.FinancialPocket) {
	for i := range l.Pockets {
		if l.Pockets[i].ID == p.ID {
			l.Pockets[i] = p
			return
		}
	}
	l.Pockets = append(l.Pockets, p)
}

func (l *ledgerState) project(id string) (domain.Project, bool) {
	for _, p := range l.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

func (l *ledgerState) card(id string) (domain.Card, bool) {
	for _, c := range l.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Card{}, false
}

func (l *ledgerState) pocket(id string) (domain.FinancialPocket, bool) {
	for _, p := range l.Pockets {
		if p.ID == id {
			return p, true
		}
	}
	return domain.FinancialPocket{}, false
}

func (l *ledgerState) member(id string) (domain.TeamMember, bool) {
	for _, m := range l.Members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.TeamMember{}, false
}

// stageStale recomputes every projection against the overlaid log, writes the
// fresh values back into the state and queues them on cs under the version
// they were read at.
func (l *ledgerState) stageStale(cs *portsrepo.ChangeSet, actor string, now time.Time) (accounting.Stale, error) {
	stale := accounting.StaleProjections(l.Snapshot)

	for _, p := range stale.Projects {
		p.Touch(actor, now)
		l.putProject(p)
		if err := cs.Put(&p); err != nil {
			return stale, err
		}
	}
	for _, c := range stale.Cards {
		c.Touch(actor, now)
		l.putCard(c)
		if err := cs.Put(&c); err != nil {
			return stale, err
		}
	}
	for _, p := range stale.Pockets {
		p.Touch(actor, now)
		l.putPocket(p)
		if err := cs.Put(&p); err != nil {
			return stale, err
		}
	}
	for _, m := range stale.Members {
		m.Touch(actor, now)
		for i := range l.Members {
			if l.Members[i].ID == m.ID {
				l.Members[i] = m
			}
		}
		if err := cs.Put(&m); err != nil {
			return stale, err
		}
	}
	return stale, nil
}
