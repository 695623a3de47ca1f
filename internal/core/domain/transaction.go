package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money relative to the business.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// FlowDirection is the direction of money relative to the pocket a transaction is tagged with.
type FlowDirection string

const (
	FlowCredit FlowDirection = "CREDIT"
	FlowDebit  FlowDirection = "DEBIT"
)

// Well-known categories that drive derivations.
const (
	CategoryDownPayment      = "DP Proyek"
	CategoryFinalPayment     = "Pelunasan Proyek"
	CategoryFreelancerFee    = "Gaji Freelancer"
	CategoryReward           = "Hadiah Freelancer"
	CategoryRewardWithdrawal = "Penarikan Hadiah Freelancer"
	CategoryInternalTransfer = "Transfer Internal"
)

// DefaultIncomeCategories and DefaultExpenseCategories are the studio profile defaults.
var (
	DefaultIncomeCategories  = []string{"DP Proyek", "Pelunasan Proyek", "Penjualan Album", "Sewa Alat", "Lain-lain"}
	DefaultExpenseCategories = []string{
		"Gaji Freelancer", "Hadiah Freelancer", "Penarikan Hadiah Freelancer", "Sewa Tempat",
		"Transportasi", "Konsumsi", "Marketing", "Sewa Alat", "Cetak Album",
		"Operasional Kantor", "Transfer Internal", "Penutupan Anggaran",
	}
)

// depositPrefixes are the description prefixes older records used to mark pocket deposits.
var depositPrefixes = []string{"Setor ke", "DP Proyek", "Pelunasan Proyek"}

// InferFlowDirection derives a pocket flow direction from a legacy description.
// It is applied once, when a transaction without an explicit direction is created.
func InferFlowDirection(description string) FlowDirection {
	for _, prefix := range depositPrefixes {
		if strings.HasPrefix(description, prefix) {
			return FlowCredit
		}
	}
	return FlowDebit
}

// Transaction is one money movement. The transaction log is the single source
// of truth for every balance in the system.
type Transaction struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string"` // always positive
	Type           TransactionType `json:"type"`
	Category       string          `json:"category"`
	Method         string          `json:"method,omitempty"`
	ProjectID      string          `json:"projectId,omitempty"`
	CardID         string          `json:"cardId,omitempty"`
	PocketID       string          `json:"pocketId,omitempty"`
	FlowDirection  FlowDirection   `json:"flowDirection,omitempty"`
	CounterpartyID string          `json:"counterpartyId,omitempty"`
	AuditFields
}

func (t *Transaction) RecordID() string { return t.ID }
func (*Transaction) Kind() EntityKind   { return KindTransaction }

// SignedAmount is +amount for income and -amount for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsRewardMovement reports whether the transaction grants or withdraws a freelancer reward.
func (t Transaction) IsRewardMovement() bool {
	return t.Category == CategoryReward || t.Category == CategoryRewardWithdrawal
}
