package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TeamMember is a freelancer. RewardBalance is a cached projection of the reward ledger.
type TeamMember struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	StandardFee   decimal.Decimal `json:"standardFee" swaggertype:"string"`
	RewardBalance decimal.Decimal `json:"rewardBalance" swaggertype:"string"`
	AuditFields
}

func (m *TeamMember) RecordID() string { return m.ID }
func (*TeamMember) Kind() EntityKind   { return KindTeamMember }

// RewardLedgerEntry is a signed grant (+) or withdrawal (-) against a member's rewards.
// Entries are derived from the transaction log and never stored.
type RewardLedgerEntry struct {
	ID            string          `json:"id"`
	TeamMemberID  string          `json:"teamMemberId"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	ProjectID     string          `json:"projectId,omitempty"`
	TransactionID string          `json:"transactionId"`
}

// TeamPaymentStatus tracks whether a freelancer fee has been paid out.
type TeamPaymentStatus string

const (
	TeamPaymentUnpaid TeamPaymentStatus = "Unpaid"
	TeamPaymentPaid   TeamPaymentStatus = "Paid"
)

// TeamProjectPayment is the fee owed to one freelancer for one project.
type TeamProjectPayment struct {
	ID             string            `json:"id"`
	ProjectID      string            `json:"projectId"`
	TeamMemberID   string            `json:"teamMemberId"`
	TeamMemberName string            `json:"teamMemberName"`
	Date           time.Time         `json:"date"`
	Status         TeamPaymentStatus `json:"status"`
	Fee            decimal.Decimal   `json:"fee" swaggertype:"string"`
	Reward         decimal.Decimal   `json:"reward" swaggertype:"string"`
	AuditFields
}

func (p *TeamProjectPayment) RecordID() string { return p.ID }
func (*TeamProjectPayment) Kind() EntityKind   { return KindTeamProjectPayment }

// TeamProjectPaymentID builds the deterministic id of a member's payment on a project.
func TeamProjectPaymentID(projectID, memberID string) string {
	return "TPP-" + projectID + "-" + memberID
}
