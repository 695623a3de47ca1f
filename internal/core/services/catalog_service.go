package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

type catalogService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewCatalogService creates the service for promo codes, packages and add-ons.
func NewCatalogService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.CatalogSvcFacade {
	return &catalogService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreatePromoCode(ctx context.Context, req dto.CreatePromoCodeRequest, userID string) (*domain.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	expiry, err := optionalDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	promo := domain.PromoCode{
		ID:            newID("PROMO"),
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      true,
		MaxUsage:      req.MaxUsage,
		ExpiryDate:    expiry,
	}
	if err := promo.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repos.PromoCodeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load promo codes: %w", err)
	}
	for _, p := range existing {
		if strings.EqualFold(p.Code, code) {
			return nil, fmt.Errorf("%w: promo code %s already exists", apperrors.ErrDuplicate, code)
		}
	}

	promo.Stamp(actorOrSystem(userID), s.Now())

	if err := s.repos.PromoCodeRepo.Insert(ctx, &promo); err != nil {
		s.LogError(ctx, err, "Failed to create promo code", slog.String("code", code))
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}
	s.LogInfo(ctx, "Promo code created", slog.String("promo_id", promo.ID), slog.String("code", code))
	return &promo, nil
}

func (s *catalogService) ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error) {
	promos, err := s.repos.PromoCodeRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list promo codes")
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

func (s *catalogService) DeactivatePromoCode(ctx context.Context, promoID string, userID string) (*domain.PromoCode, error) {
	now := s.Now()
	updated, err := s.repos.PromoCodeRepo.Update(ctx, promoID, func(p *domain.PromoCode) error {
		p.IsActive = false
		p.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate promo code", slog.String("promo_id", promoID))
		return nil, fmt.Errorf("failed to deactivate promo code %s: %w", promoID, err)
	}
	return updated, nil
}

// ExpirePromoCodes deactivates every active code whose expiry date is before
// now's calendar day. Codes touched concurrently are left for the next run.
func (s *catalogService) ExpirePromoCodes(ctx context.Context, now time.Time) (int, error) {
	promos, err := s.repos.PromoCodeRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load promo codes: %w", err)
	}

	cs := portsrepo.NewChangeSet()
	for _, p := range promos {
		if !p.IsActive || !p.IsExpired(now) {
			continue
		}
		p.IsActive = false
		p.Touch(systemActor, now)
		if err := cs.UpdateVersioned(&p); err != nil {
			return 0, err
		}
	}
	if cs.Len() == 0 {
		return 0, nil
	}
	if err := s.repos.UnitOfWork.Apply(ctx, cs); err != nil {
		s.LogError(ctx, err, "Failed to expire promo codes", slog.Int("candidates", cs.Len()))
		return 0, fmt.Errorf("failed to expire promo codes: %w", err)
	}
	s.LogInfo(ctx, "Expired promo codes deactivated", slog.Int("count", cs.Len()))
	return cs.Len(), nil
}

func (s *catalogService) CreatePackage(ctx context.Context, req dto.CreatePackageRequest, userID string) (*domain.Package, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: package name is required", apperrors.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	pkg := domain.Package{
		ID:          newID("PKG"),
		Name:        name,
		Price:       req.Price,
		Description: req.Description,
		Items:       req.Items,
	}
	pkg.Stamp(actorOrSystem(userID), s.Now())

	if err := s.repos.PackageRepo.Insert(ctx, &pkg); err != nil {
		s.LogError(ctx, err, "Failed to create package", slog.String("package_name", name))
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return &pkg, nil
}

func (s *catalogService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	pkgs, err := s.repos.PackageRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list packages")
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}

func (s *catalogService) CreateAddOn(ctx context.Context, req dto.CreateAddOnRequest, userID string) (*domain.AddOn, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: add-on name is required", apperrors.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidation)
	}
	addOn := domain.AddOn{
		ID:    newID("ADD"),
		Name:  name,
		Price: req.Price,
	}
	addOn.Stamp(actorOrSystem(userID), s.Now())

	if err := s.repos.AddOnRepo.Insert(ctx, &addOn); err != nil {
		s.LogError(ctx, err, "Failed to create add-on", slog.String("add_on_name", name))
		return nil, fmt.Errorf("failed to create add-on: %w", err)
	}
	return &addOn, nil
}

func (s *catalogService) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	addOns, err := s.repos.AddOnRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list add-ons")
		return nil, fmt.Errorf("failed to list add-ons: %w", err)
	}
	return addOns, nil
}
