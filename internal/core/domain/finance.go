package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardType is the kind of payment instrument.
type CardType string

const (
	CardPrepaid CardType = "PRABAYAR"
	CardCredit  CardType = "KREDIT"
	CardDebit   CardType = "DEBIT"
)

// CashCardID is the virtual card that stands for cash on hand.
const CashCardID = "CARD_CASH"

// Card is a bank card or the cash sink. Balance is a cached projection of the
// signed sum of its transactions.
type Card struct {
	ID             string          `json:"id"`
	CardHolderName string          `json:"cardHolderName"`
	BankName       string          `json:"bankName"`
	CardType       CardType        `json:"cardType"`
	LastFourDigits string          `json:"lastFourDigits"`
	ExpiryDate     string          `json:"expiryDate,omitempty"`
	Balance        decimal.Decimal `json:"balance" swaggertype:"string"`
	AuditFields
}

func (c *Card) RecordID() string { return c.ID }
func (*Card) Kind() EntityKind   { return KindCard }

// PocketType selects how a pocket's amount is derived.
type PocketType string

const (
	PocketSaving     PocketType = "SAVING"
	PocketLocked     PocketType = "LOCKED"
	PocketExpense    PocketType = "EXPENSE"
	PocketRewardPool PocketType = "REWARD_POOL"
)

// IsValid reports whether t is a known pocket type.
func (t PocketType) IsValid() bool {
	switch t {
	case PocketSaving, PocketLocked, PocketExpense, PocketRewardPool:
		return true
	}
	return false
}

// ClientIncomePocketID is the pocket that collects client payments.
const ClientIncomePocketID = "POC005"

// FinancialPocket is a named sub-allocation of funds. Amount is a cached projection.
type FinancialPocket struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Type         PocketType       `json:"type"`
	Amount       decimal.Decimal  `json:"amount" swaggertype:"string"`
	GoalAmount   *decimal.Decimal `json:"goalAmount,omitempty" swaggertype:"string"`
	LockEndDate  *time.Time       `json:"lockEndDate,omitempty"`
	SourceCardID string           `json:"sourceCardId,omitempty"`
	AuditFields
}

func (p *FinancialPocket) RecordID() string { return p.ID }
func (*FinancialPocket) Kind() EntityKind   { return KindPocket }

// IsLocked reports whether a LOCKED pocket is still inside its lock period.
func (p *FinancialPocket) IsLocked(now time.Time) bool {
	return p.Type == PocketLocked && p.LockEndDate != nil && now.Before(*p.LockEndDate)
}
