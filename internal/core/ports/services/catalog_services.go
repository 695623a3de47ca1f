package services

import (
	"context"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// PromoCodeSvc manages promo codes.
type PromoCodeSvc interface {
	CreatePromoCode(ctx context.Context, req dto.CreatePromoCodeRequest, userID string) (*domain.PromoCode, error)
	ListPromoCodes(ctx context.Context) ([]domain.PromoCode, error)
	DeactivatePromoCode(ctx context.Context, promoID string, userID string) (*domain.PromoCode, error)

	// ExpirePromoCodes deactivates active codes whose expiry date has passed.
	ExpirePromoCodes(ctx context.Context, now time.Time) (int, error)
}

// OfferingSvc manages packages and add-ons.
type OfferingSvc interface {
	CreatePackage(ctx context.Context, req dto.CreatePackageRequest, userID string) (*domain.Package, error)
	ListPackages(ctx context.Context) ([]domain.Package, error)
	CreateAddOn(ctx context.Context, req dto.CreateAddOnRequest, userID string) (*domain.AddOn, error)
	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
}

// CatalogSvcFacade combines promo codes and offerings.
type CatalogSvcFacade interface {
	PromoCodeSvc
	OfferingSvc
}
