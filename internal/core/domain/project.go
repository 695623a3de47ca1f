package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ProjectStatus is a column on the projects kanban board.
type ProjectStatus string

const (
	ProjectPreparation ProjectStatus = "PREPARATION"
	ProjectPending     ProjectStatus = "PENDING"
	ProjectConfirmed   ProjectStatus = "CONFIRMED"
	ProjectEditing     ProjectStatus = "EDITING"
	ProjectPrinting    ProjectStatus = "PRINTING"
	ProjectShipped     ProjectStatus = "SHIPPED"
	ProjectCompleted   ProjectStatus = "COMPLETED"
	ProjectCancelled   ProjectStatus = "CANCELLED"
)

var projectProgress = map[ProjectStatus]int{
	ProjectPreparation: 10,
	ProjectPending:     0,
	ProjectConfirmed:   25,
	ProjectEditing:     70,
	ProjectPrinting:    90,
	ProjectShipped:     95,
	ProjectCompleted:   100,
	ProjectCancelled:   0,
}

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	_, ok := projectProgress[s]
	return ok
}

// ProgressForStatus returns the progress percentage implied by a status.
func ProgressForStatus(s ProjectStatus) int {
	return projectProgress[s]
}

// SubStatusOptions lists the allowed free-text refinements for statuses that carry one.
var SubStatusOptions = map[ProjectStatus][]string{
	ProjectEditing:  {"Editing Video", "Editing Album", "Editing Foto"},
	ProjectPrinting: {"Cetak Bingkai", "Cetak Album", "Flashdisk", "Lainnya"},
}

// PaymentStatus is the derived settlement state of a project.
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "BELUM_BAYAR"
	PaymentDownPayment PaymentStatus = "DP_TERBAYAR"
	PaymentSettled     PaymentStatus = "LUNAS"
)

// ProjectTeamAssignment is a freelancer booked on a project.
type ProjectTeamAssignment struct {
	MemberID string          `json:"memberId"`
	Name     string          `json:"name"`
	Role     string          `json:"role"`
	Fee      decimal.Decimal `json:"fee" swaggertype:"string"`
	Reward   decimal.Decimal `json:"reward" swaggertype:"string"`
}

// RevisionStatus tracks a revision request sent to a freelancer.
type RevisionStatus string

const (
	RevisionPending    RevisionStatus = "PENDING"
	RevisionInProgress RevisionStatus = "IN_PROGRESS"
	RevisionCompleted  RevisionStatus = "COMPLETED"
)

// Revision is a change request on a delivered project.
type Revision struct {
	ID           string         `json:"id"`
	Date         time.Time      `json:"date"`
	AdminNotes   string         `json:"adminNotes"`
	Deadline     time.Time      `json:"deadline"`
	FreelancerID string         `json:"freelancerId"`
	Status       RevisionStatus `json:"status"`
}

// Project is a booked job. AmountPaid and PaymentStatus are cached projections
// of the transaction log and are rewritten whenever that log changes.
type Project struct {
	ID              string                  `json:"id"`
	ProjectName     string                  `json:"projectName"`
	ClientID        string                  `json:"clientId"`
	ClientName      string                  `json:"clientName"`
	ProjectType     string                  `json:"projectType"`
	PackageID       string                  `json:"packageId"`
	PackageName     string                  `json:"packageName"`
	AddOns          []AddOn                 `json:"addOns"`
	Date            time.Time               `json:"date"`
	DeadlineDate    *time.Time              `json:"deadlineDate,omitempty"`
	Location        string                  `json:"location"`
	Progress        int                     `json:"progress"`
	Status          ProjectStatus           `json:"status"`
	SubStatus       string                  `json:"subStatus,omitempty"`
	ShippingDetails string                  `json:"shippingDetails,omitempty"`
	TotalCost       decimal.Decimal         `json:"totalCost" swaggertype:"string"`
	AmountPaid      decimal.Decimal         `json:"amountPaid" swaggertype:"string"`
	PaymentStatus   PaymentStatus           `json:"paymentStatus"`
	Team            []ProjectTeamAssignment `json:"team"`
	Revisions       []Revision              `json:"revisions,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	PromoCodeID     string                  `json:"promoCodeId,omitempty"`
	DiscountAmount  decimal.Decimal         `json:"discountAmount" swaggertype:"string"`
	AuditFields
}

func (p *Project) RecordID() string { return p.ID }
func (*Project) Kind() EntityKind   { return KindProject }

// MoveTo applies a kanban transition. Every move is allowed; progress follows
// the status table, subStatus survives only on EDITING/PRINTING and
// shippingDetails only on SHIPPED.
func (p *Project) MoveTo(status ProjectStatus, subStatus, shippingDetails string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, status)
	}
	if subStatus != "" {
		options, ok := SubStatusOptions[status]
		if !ok {
			return fmt.Errorf("%w: status %s does not take a sub-status", apperrors.ErrValidation, status)
		}
		if !contains(options, subStatus) {
			return fmt.Errorf("%w: sub-status %q is not valid for %s", apperrors.ErrValidation, subStatus, status)
		}
	}

	p.Status = status
	p.Progress = ProgressForStatus(status)

	switch status {
	case ProjectEditing, ProjectPrinting:
		p.SubStatus = subStatus
	default:
		p.SubStatus = ""
	}

	if status == ProjectShipped {
		if shippingDetails != "" {
			p.ShippingDetails = shippingDetails
		}
	} else {
		p.ShippingDetails = ""
	}
	return nil
}

// RemainingBalance is what the client still owes.
func (p *Project) RemainingBalance() decimal.Decimal {
	remaining := p.TotalCost.Sub(p.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
