package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DiscountType is how a promo code's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var hundred = decimal.NewFromInt(100)

// PromoCode is a marketing discount. UsageCount only ever grows.
type PromoCode struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue" swaggertype:"string"`
	IsActive      bool            `json:"isActive"`
	UsageCount    int             `json:"usageCount"`
	MaxUsage      *int            `json:"maxUsage,omitempty"`
	ExpiryDate    *time.Time      `json:"expiryDate,omitempty"`
	AuditFields
}

func (p *PromoCode) RecordID() string { return p.ID }
func (*PromoCode) Kind() EntityKind   { return KindPromoCode }

// Discount computes the discount on subtotal. Fixed discounts are capped at the subtotal.
func (p *PromoCode) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		d = subtotal.Mul(p.DiscountValue).Div(hundred).Round(2)
	default:
		d = p.DiscountValue
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Validate checks the fields a code must carry before it is stored.
func (p *PromoCode) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("%w: promo code is required", apperrors.ErrValidation)
	}
	switch p.DiscountType {
	case DiscountPercentage:
		if p.DiscountValue.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage discount cannot exceed 100", apperrors.ErrValidation)
		}
	case DiscountFixed:
	default:
		return fmt.Errorf("%w: unknown discount type %q", apperrors.ErrValidation, p.DiscountType)
	}
	if !p.DiscountValue.IsPositive() {
		return fmt.Errorf("%w: discount value must be greater than zero", apperrors.ErrValidation)
	}
	if p.MaxUsage != nil && *p.MaxUsage < 1 {
		return fmt.Errorf("%w: max usage must be at least 1", apperrors.ErrValidation)
	}
	return nil
}

// IsExpired reports whether the code's expiry date is before now's calendar day.
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(Today(now))
}

// CheckRedeemable fails with a validation error when the code cannot be used once more.
func (p *PromoCode) CheckRedeemable(now time.Time) error {
	if !p.IsActive {
		return fmt.Errorf("%w: promo code %s is not active", apperrors.ErrValidation, p.Code)
	}
	if p.IsExpired(now) {
		return fmt.Errorf("%w: promo code %s has expired", apperrors.ErrValidation, p.Code)
	}
	if p.MaxUsage != nil && p.UsageCount+1 > *p.MaxUsage {
		return fmt.Errorf("%w: promo code %s has reached its usage limit", apperrors.ErrValidation, p.Code)
	}
	return nil
}
