package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/conversion"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/utils"
)

const (
	SourceAdmin   = "admin"
	SourceBooking = "booking"
)

type conversionService struct {
	BaseService
	repos          portsrepo.RepositoryProvider
	incomePocketID string
}

// NewConversionService creates the lead conversion pipeline. Down payments are
// tagged with incomePocketID when such a pocket exists.
func NewConversionService(repos portsrepo.RepositoryProvider, incomePocketID string, opts ...Option) portssvc.ConversionSvcFacade {
	if incomePocketID == "" {
		incomePocketID = domain.ClientIncomePocketID
	}
	return &conversionService{
		BaseService:    newBaseService(opts),
		repos:          repos,
		incomePocketID: incomePocketID,
	}
}

var _ portssvc.ConversionSvcFacade = (*conversionService)(nil)

func (s *conversionService) ConvertLead(ctx context.Context, leadID string, req dto.ConvertLeadRequest, userID string) (*conversion.Result, error) {
	form, err := req.ToForm()
	if err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (domain.Lead, error) {
		lead, err := s.repos.LeadRepo.Get(ctx, leadID)
		if err != nil {
			return domain.Lead{}, err
		}
		return *lead, nil
	}
	return s.convert(ctx, load, false, form, actorOrSystem(userID), SourceAdmin)
}

func (s *conversionService) SubmitBooking(ctx context.Context, req dto.PublicBookingRequest) (*conversion.Result, error) {
	form, err := req.ToForm()
	if err != nil {
		return nil, err
	}
	now := s.Now()
	lead := newLead(req.Name, domain.ChannelWebsite, req.Location, req.Notes, domain.Today(now))
	if lead.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	lead.Stamp(systemActor, now)

	load := func(context.Context) (domain.Lead, error) { return lead, nil }
	return s.convert(ctx, load, true, form, systemActor, SourceBooking)
}

// convert plans and applies a conversion, re-planning from fresh state when
// the lead, promo code or a projection changed underneath it.
func (s *conversionService) convert(
	ctx context.Context,
	loadLead func(context.Context) (domain.Lead, error),
	isNewLead bool,
	form conversion.Form,
	actor, source string,
) (*conversion.Result, error) {
	result, err := withLedger(ctx, &s.BaseService, "convert lead", func() (*conversion.Result, error) {
		return s.convertOnce(ctx, loadLead, isNewLead, form, actor)
	})
	if err != nil {
		return nil, err
	}

	s.events.ConversionCompleted(source)
	if result.Transaction != nil {
		s.events.TransactionRecorded(result.Transaction.Type)
	}
	s.LogInfo(ctx, "Lead converted",
		slog.String("lead_id", result.Lead.ID),
		slog.String("client_id", result.Client.ID),
		slog.String("project_id", result.Project.ID),
		slog.String("total_cost", result.TotalCost.String()),
		slog.String("source", source))
	return result, nil
}

func (s *conversionService) convertOnce(
	ctx context.Context,
	loadLead func(context.Context) (domain.Lead, error),
	isNewLead bool,
	form conversion.Form,
	actor string,
) (*conversion.Result, error) {
	lead, err := loadLead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}

	result, cs, err := s.plan(ctx, lead, isNewLead, form, actor)
	if err != nil {
		s.LogDebug(ctx, "Conversion rejected", slog.String("lead_id", lead.ID), slog.String("reason", err.Error()))
		return nil, err
	}

	// Nothing has been written yet; a cancelled request stops here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to apply conversion", slog.String("lead_id", lead.ID))
		}
		return nil, fmt.Errorf("failed to convert lead %s: %w", lead.ID, err)
	}
	markApplied(result, isNewLead)
	return result, nil
}

// markApplied brings the result's versions in line with what the store now holds.
func markApplied(r *conversion.Result, isNewLead bool) {
	if isNewLead {
		r.Lead.Version = 1
	} else {
		r.Lead.Version++
	}
	r.Client.Version = 1
	r.Project.Version = 1
	if r.Transaction != nil {
		r.Transaction.Version = 1
	}
	if r.Card != nil {
		r.Card.Version++
	}
	if r.Pocket != nil {
		r.Pocket.Version++
	}
	if r.PromoCode != nil {
		r.PromoCode.Version++
	}
}

// plan reads the current state, runs the pure planner and turns its result
// into one change set.
func (s *conversionService) plan(ctx context.Context, lead domain.Lead, isNewLead bool, form conversion.Form, actor string) (*conversion.Result, *portsrepo.ChangeSet, error) {
	packages, err := s.repos.PackageRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packages: %w", err)
	}
	addOns, err := s.repos.AddOnRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load add-ons: %w", err)
	}
	promos, err := s.repos.PromoCodeRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load promo codes: %w", err)
	}
	state, err := loadLedgerState(ctx, s.repos)
	if err != nil {
		return nil, nil, err
	}

	portalID, err := s.newPortalAccessID(ctx)
	if err != nil {
		return nil, nil, err
	}

	catalog := conversion.Catalog{
		Packages:     packages,
		AddOns:       addOns,
		PromoCodes:   promos,
		Cards:        state.Cards,
		Transactions: state.Transactions,
		Members:      state.Members,
	}
	if pocket, ok := state.pocket(s.incomePocketID); ok {
		catalog.IncomePocket = &pocket
	}

	now := s.Now()
	result, err := conversion.Plan(conversion.Input{
		Lead:    lead,
		Form:    form,
		Catalog: catalog,
		IDs: conversion.IDs{
			ClientID:       newID("CLI"),
			ProjectID:      newID("PRJ"),
			PortalAccessID: portalID,
		},
		Actor: actor,
		Now:   now,
	})
	if err != nil {
		return nil, nil, err
	}

	cs := portsrepo.NewChangeSet()
	if isNewLead {
		err = cs.Insert(&result.Lead)
	} else {
		err = cs.UpdateVersioned(&result.Lead)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := cs.Insert(&result.Client); err != nil {
		return nil, nil, err
	}
	if err := cs.Insert(&result.Project); err != nil {
		return nil, nil, err
	}
	state.putProject(result.Project)

	if result.Transaction != nil {
		if err := cs.Insert(result.Transaction); err != nil {
			return nil, nil, err
		}
		state.addTransaction(*result.Transaction)
	}
	if result.Card != nil {
		if err := cs.Put(result.Card); err != nil {
			return nil, nil, err
		}
		state.putCard(*result.Card)
	}
	if result.Pocket != nil {
		if err := cs.Put(result.Pocket); err != nil {
			return nil, nil, err
		}
		state.putPocket(*result.Pocket)
	}
	if result.PromoCode != nil {
		if err := cs.UpdateVersioned(result.PromoCode); err != nil {
			return nil, nil, err
		}
	}
	if _, err := state.stageStale(cs, actor, now); err != nil {
		return nil, nil, err
	}

	return result, cs, nil
}

// newPortalAccessID draws tokens until one is not used by an existing client.
func (s *conversionService) newPortalAccessID(ctx context.Context) (string, error) {
	clients, err := s.repos.ClientRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load clients: %w", err)
	}
	return uniquePortalAccessID(clients)
}

func uniquePortalAccessID(clients []domain.Client) (string, error) {
	taken := make(map[string]bool, len(clients))
	for _, c := range clients {
		taken[c.PortalAccessID] = true
	}
	for {
		id, err := utils.GeneratePortalAccessID()
		if err != nil {
			return "", fmt.Errorf("failed to generate portal access id: %w", err)
		}
		if !taken[id] {
			return id, nil
		}
	}
}
