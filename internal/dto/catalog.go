package dto

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePromoCodeRequest defines the data needed to create a promo code.
type CreatePromoCodeRequest struct {
	Code          string              `json:"code" binding:"required,alphanum,max=32"`
	DiscountType  domain.DiscountType `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal     `json:"discountValue" swaggertype:"string"`
	MaxUsage      *int                `json:"maxUsage" binding:"omitempty,min=1"`
	ExpiryDate    string              `json:"expiryDate" binding:"omitempty,datetime=2006-01-02"`
}

// ExpirePromoCodesResponse reports how many codes were deactivated.
type ExpirePromoCodesResponse struct {
	Expired int `json:"expired"`
}

// CreatePackageRequest defines a sellable package.
type CreatePackageRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Description string          `json:"description" binding:"max=2000"`
	Items       []string        `json:"items"`
}

// CreateAddOnRequest defines an optional extra sold with a package.
type CreateAddOnRequest struct {
	Name  string          `json:"name" binding:"required,max=200"`
	Price decimal.Decimal `json:"price" swaggertype:"string"`
}

// CatalogResponse is what the public booking form needs to render.
type CatalogResponse struct {
	Packages []domain.Package `json:"packages"`
	AddOns   []domain.AddOn   `json:"addOns"`
}
