package dto

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
)

// CreateLeadRequest is a lead entered manually by an admin.
type CreateLeadRequest struct {
	Name           string                `json:"name" binding:"required,max=200"`
	ContactChannel domain.ContactChannel `json:"contactChannel"`
	Location       string                `json:"location" binding:"max=200"`
	Date           string                `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes          string                `json:"notes" binding:"max=2000"`
}

// PublicLeadRequest is submitted from the public suggestion/contact form.
type PublicLeadRequest struct {
	Name           string                `json:"name" binding:"required,max=200"`
	ContactChannel domain.ContactChannel `json:"contactChannel"`
	Location       string                `json:"location" binding:"max=200"`
	Message        string                `json:"message" binding:"max=2000"`
}

// UpdateLeadRequest defines the data allowed for updating a lead.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateLeadRequest struct {
	Name           *string                `json:"name" binding:"omitempty,max=200"`
	ContactChannel *domain.ContactChannel `json:"contactChannel"`
	Location       *string                `json:"location" binding:"omitempty,max=200"`
	Notes          *string                `json:"notes" binding:"omitempty,max=2000"`
}

// MoveLeadRequest moves a lead to another kanban column.
type MoveLeadRequest struct {
	Status domain.LeadStatus `json:"status" binding:"required,oneof=NEW DISCUSSION FOLLOW_UP CONVERTED REJECTED"`
}

// LeadStatsResponse summarises the lead funnel.
type LeadStatsResponse struct {
	Total          int     `json:"total"`
	NewThisMonth   int     `json:"newThisMonth"`
	Converted      int     `json:"converted"`
	Rejected       int     `json:"rejected"`
	ConversionRate float64 `json:"conversionRate"`
}
