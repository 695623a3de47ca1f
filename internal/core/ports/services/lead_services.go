package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// LeadReaderSvc defines read operations for leads
type LeadReaderSvc interface {
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	GetLead(ctx context.Context, leadID string) (*domain.Lead, error)
	LeadStats(ctx context.Context) (*dto.LeadStatsResponse, error)
}

// LeadWriterSvc defines write operations for leads
type LeadWriterSvc interface {
	CreateLead(ctx context.Context, req dto.CreateLeadRequest, userID string) (*domain.Lead, error)

	// SubmitPublicLead records a lead from the public contact form.
	SubmitPublicLead(ctx context.Context, req dto.PublicLeadRequest) (*domain.Lead, error)

	UpdateLead(ctx context.Context, leadID string, req dto.UpdateLeadRequest, userID string) (*domain.Lead, error)

	// MoveLead changes the kanban column. CONVERTED is only reachable through conversion.
	MoveLead(ctx context.Context, leadID string, status domain.LeadStatus, userID string) (*domain.Lead, error)

	DeleteLead(ctx context.Context, leadID string) error
}

// LeadSvcFacade combines all lead-related service interfaces
type LeadSvcFacade interface {
	LeadReaderSvc
	LeadWriterSvc
}
