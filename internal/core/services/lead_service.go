package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

type leadService struct {
	BaseService
	leadRepo portsrepo.LeadRepositoryFacade
}

// NewLeadService creates a new lead service.
func NewLeadService(leadRepo portsrepo.LeadRepositoryFacade, opts ...Option) portssvc.LeadSvcFacade {
	return &leadService{
		BaseService: newBaseService(opts),
		leadRepo:    leadRepo,
	}
}

var _ portssvc.LeadSvcFacade = (*leadService)(nil)

func (s *leadService) CreateLead(ctx context.Context, req dto.CreateLeadRequest, userID string) (*domain.Lead, error) {
	now := s.Now()
	date, err := dateOr(req.Date, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: lead name is required", apperrors.ErrValidation)
	}
	channel := req.ContactChannel
	if channel == "" {
		channel = domain.ChannelOther
	}
	lead := newLead(req.Name, channel, req.Location, req.Notes, date)
	lead.Stamp(actorOrSystem(userID), now)

	if err := s.leadRepo.Insert(ctx, &lead); err != nil {
		s.LogError(ctx, err, "Failed to create lead", slog.String("lead_name", lead.Name))
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	s.LogInfo(ctx, "Lead created", slog.String("lead_id", lead.ID), slog.String("channel", string(lead.ContactChannel)))
	return &lead, nil
}

func (s *leadService) SubmitPublicLead(ctx context.Context, req dto.PublicLeadRequest) (*domain.Lead, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	now := s.Now()
	channel := req.ContactChannel
	if channel == "" {
		channel = domain.ChannelSuggestionForm
	}
	lead := newLead(req.Name, channel, req.Location, req.Message, domain.Today(now))
	lead.Stamp(systemActor, now)

	if err := s.leadRepo.Insert(ctx, &lead); err != nil {
		s.LogError(ctx, err, "Failed to store public lead")
		return nil, fmt.Errorf("failed to submit lead: %w", err)
	}
	s.LogInfo(ctx, "Public lead submitted", slog.String("lead_id", lead.ID))
	return &lead, nil
}

func (s *leadService) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	leads, err := s.leadRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list leads")
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

func (s *leadService) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	lead, err := s.leadRepo.Get(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead %s: %w", leadID, err)
	}
	return lead, nil
}

func (s *leadService) UpdateLead(ctx context.Context, leadID string, req dto.UpdateLeadRequest, userID string) (*domain.Lead, error) {
	now := s.Now()
	updated, err := s.leadRepo.Update(ctx, leadID, func(l *domain.Lead) error {
		if l.Status.IsTerminal() && (req.Name != nil || req.ContactChannel != nil || req.Location != nil) {
			return fmt.Errorf("%w: lead %s is %s, only notes can change", apperrors.ErrValidation, l.ID, l.Status)
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: lead name cannot be empty", apperrors.ErrValidation)
			}
			l.Name = name
		}
		if req.ContactChannel != nil {
			l.ContactChannel = domain.NormalizeContactChannel(*req.ContactChannel)
		}
		if req.Location != nil {
			l.Location = *req.Location
		}
		if req.Notes != nil {
			l.Notes = *req.Notes
		}
		l.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update lead", slog.String("lead_id", leadID))
		return nil, fmt.Errorf("failed to update lead %s: %w", leadID, err)
	}
	return updated, nil
}

func (s *leadService) MoveLead(ctx context.Context, leadID string, status domain.LeadStatus, userID string) (*domain.Lead, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead status %q", apperrors.ErrValidation, status)
	}
	if status == domain.LeadConverted {
		return nil, fmt.Errorf("%w: leads become CONVERTED only through conversion", apperrors.ErrValidation)
	}

	now := s.Now()
	updated, err := s.leadRepo.Update(ctx, leadID, func(l *domain.Lead) error {
		if l.Status.IsTerminal() && l.Status != status {
			return fmt.Errorf("%w: lead %s is %s and cannot move", apperrors.ErrValidation, l.ID, l.Status)
		}
		l.Status = status
		l.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to move lead", slog.String("lead_id", leadID), slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to move lead %s: %w", leadID, err)
	}
	s.LogInfo(ctx, "Lead moved", slog.String("lead_id", leadID), slog.String("status", string(status)))
	return updated, nil
}

func (s *leadService) DeleteLead(ctx context.Context, leadID string) error {
	if err := s.leadRepo.Remove(ctx, leadID); err != nil {
		s.LogError(ctx, err, "Failed to delete lead", slog.String("lead_id", leadID))
		return fmt.Errorf("failed to delete lead %s: %w", leadID, err)
	}
	return nil
}

func (s *leadService) LeadStats(ctx context.Context) (*dto.LeadStatsResponse, error) {
	leads, err := s.ListLeads(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	stats := &dto.LeadStatsResponse{Total: len(leads)}
	for _, l := range leads {
		switch l.Status {
		case domain.LeadConverted:
			stats.Converted++
		case domain.LeadRejected:
			stats.Rejected++
		}
		if l.Date.Year() == now.Year() && l.Date.Month() == now.Month() {
			stats.NewThisMonth++
		}
	}
	if stats.Total > 0 {
		rate := float64(stats.Converted) / float64(stats.Total) * 100
		stats.ConversionRate = math.Round(rate*10) / 10
	}
	return stats, nil
}

func newLead(name string, channel domain.ContactChannel, location, notes string, date time.Time) domain.Lead {
	return domain.Lead{
		ID:             newID("LEAD"),
		Name:           strings.TrimSpace(name),
		ContactChannel: domain.NormalizeContactChannel(channel),
		Location:       location,
		Status:         domain.LeadNew,
		Date:           date,
		Notes:          notes,
	}
}
