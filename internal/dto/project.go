package dto

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TeamAssignmentRequest assigns a team member to a project.
type TeamAssignmentRequest struct {
	MemberID string          `json:"memberId" binding:"required"`
	Role     string          `json:"role"`
	Fee      decimal.Decimal `json:"fee" swaggertype:"string"`
	Reward   decimal.Decimal `json:"reward" swaggertype:"string"`
}

// CreateProjectRequest defines the data needed to create a project without a lead.
type CreateProjectRequest struct {
	ProjectName  string                  `json:"projectName" binding:"required,max=200"`
	ClientID     string                  `json:"clientId" binding:"required"`
	ProjectType  string                  `json:"projectType" binding:"max=100"`
	PackageID    string                  `json:"packageId"`
	AddOnIDs     []string                `json:"addOnIds"`
	Date         string                  `json:"date" binding:"required,datetime=2006-01-02"`
	DeadlineDate string                  `json:"deadlineDate" binding:"omitempty,datetime=2006-01-02"`
	Location     string                  `json:"location" binding:"max=200"`
	Status       domain.ProjectStatus    `json:"status" binding:"omitempty,oneof=PREPARATION PENDING CONFIRMED EDITING PRINTING SHIPPED COMPLETED CANCELLED"`
	TotalCost    decimal.Decimal         `json:"totalCost" swaggertype:"string"`
	Team         []TeamAssignmentRequest `json:"team" binding:"dive"`
	Notes        string                  `json:"notes" binding:"max=2000"`
}

// UpdateProjectRequest defines the operational fields of a project that may change.
// Financial fields are derived from the transaction log and cannot be set here.
// A nil Team leaves the assignments untouched; an empty one clears them.
type UpdateProjectRequest struct {
	ProjectName  *string                  `json:"projectName" binding:"omitempty,max=200"`
	ProjectType  *string                  `json:"projectType" binding:"omitempty,max=100"`
	Date         *string                  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	DeadlineDate *string                  `json:"deadlineDate" binding:"omitempty,datetime=2006-01-02"`
	Location     *string                  `json:"location" binding:"omitempty,max=200"`
	Notes        *string                  `json:"notes" binding:"omitempty,max=2000"`
	Team         *[]TeamAssignmentRequest `json:"team"`
}

// MoveProjectRequest moves a project to another kanban column.
type MoveProjectRequest struct {
	Status          domain.ProjectStatus `json:"status" binding:"required,oneof=PREPARATION PENDING CONFIRMED EDITING PRINTING SHIPPED COMPLETED CANCELLED"`
	SubStatus       string               `json:"subStatus"`
	ShippingDetails string               `json:"shippingDetails"`
}

// AddRevisionRequest records a revision request against a project.
type AddRevisionRequest struct {
	AdminNotes   string `json:"adminNotes" binding:"required,max=2000"`
	Deadline     string `json:"deadline" binding:"required,datetime=2006-01-02"`
	FreelancerID string `json:"freelancerId" binding:"required"`
}

// UpdateRevisionStatusRequest changes the status of a revision.
type UpdateRevisionStatusRequest struct {
	Status domain.RevisionStatus `json:"status" binding:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}
