package dto

import (
	"fmt"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/conversion"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertLeadRequest is the conversion form filled in on the leads board.
// The package is deliberately not marked required so the planner reports
// a missing package the same way for every entry point.
type ConvertLeadRequest struct {
	Email             string          `json:"email" binding:"omitempty,email"`
	Phone             string          `json:"phone"`
	Instagram         string          `json:"instagram"`
	ProjectName       string          `json:"projectName"`
	ProjectType       string          `json:"projectType"`
	Date              string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Location          string          `json:"location"`
	PackageID         string          `json:"packageId"`
	AddOnIDs          []string        `json:"addOnIds"`
	PromoCodeID       string          `json:"promoCodeId"`
	DownPayment       decimal.Decimal `json:"dp" swaggertype:"string"`
	DestinationCardID string          `json:"dpDestination"`
	Notes             string          `json:"notes"`
}

// ToForm converts the request into the planner's form.
func (r ConvertLeadRequest) ToForm() (conversion.Form, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return conversion.Form{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return conversion.Form{
		Email:             r.Email,
		Phone:             r.Phone,
		Instagram:         r.Instagram,
		ProjectName:       r.ProjectName,
		ProjectType:       r.ProjectType,
		Date:              date,
		Location:          r.Location,
		PackageID:         r.PackageID,
		AddOnIDs:          r.AddOnIDs,
		PromoCodeID:       r.PromoCodeID,
		DownPayment:       r.DownPayment,
		DestinationCardID: r.DestinationCardID,
		Notes:             r.Notes,
	}, nil
}

// PublicBookingRequest is the public booking form: lead details plus the
// same conversion form an admin would fill in.
type PublicBookingRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	ConvertLeadRequest
}

// ConversionResponse is every record a conversion produced.
type ConversionResponse struct {
	Lead             domain.Lead             `json:"lead"`
	Client           domain.Client           `json:"client"`
	Project          domain.Project          `json:"project"`
	Transaction      *domain.Transaction     `json:"transaction,omitempty"`
	Card             *domain.Card            `json:"card,omitempty"`
	Pocket           *domain.FinancialPocket `json:"pocket,omitempty"`
	PromoCode        *domain.PromoCode       `json:"promoCode,omitempty"`
	Subtotal         decimal.Decimal         `json:"subtotal" swaggertype:"string"`
	Discount         decimal.Decimal         `json:"discount" swaggertype:"string"`
	TotalCost        decimal.Decimal         `json:"totalCost" swaggertype:"string"`
	RemainingBalance decimal.Decimal         `json:"remainingBalance" swaggertype:"string"`
}

// ToConversionResponse converts a planner result to its wire form.
func ToConversionResponse(r *conversion.Result) ConversionResponse {
	return ConversionResponse{
		Lead:             r.Lead,
		Client:           r.Client,
		Project:          r.Project,
		Transaction:      r.Transaction,
		Card:             r.Card,
		Pocket:           r.Pocket,
		PromoCode:        r.PromoCode,
		Subtotal:         r.Subtotal,
		Discount:         r.Discount,
		TotalCost:        r.TotalCost,
		RemainingBalance: r.Remaining,
	}
}

// PublicBookingResponse is what an anonymous booking sees. Card, pocket and
// promo records stay internal.
type PublicBookingResponse struct {
	LeadID           string               `json:"leadId"`
	ProjectID        string               `json:"projectId"`
	ProjectName      string               `json:"projectName"`
	PaymentStatus    domain.PaymentStatus `json:"paymentStatus"`
	Subtotal         decimal.Decimal      `json:"subtotal" swaggertype:"string"`
	Discount         decimal.Decimal      `json:"discount" swaggertype:"string"`
	TotalCost        decimal.Decimal      `json:"totalCost" swaggertype:"string"`
	RemainingBalance decimal.Decimal      `json:"remainingBalance" swaggertype:"string"`
	PortalAccessID   string               `json:"portalAccessId"`
}

// ToPublicBookingResponse trims a planner result for the booking form.
func ToPublicBookingResponse(r *conversion.Result) PublicBookingResponse {
	return PublicBookingResponse{
		LeadID:           r.Lead.ID,
		ProjectID:        r.Project.ID,
		ProjectName:      r.Project.ProjectName,
		PaymentStatus:    r.Project.PaymentStatus,
		Subtotal:         r.Subtotal,
		Discount:         r.Discount,
		TotalCost:        r.TotalCost,
		RemainingBalance: r.Remaining,
		PortalAccessID:   r.Client.PortalAccessID,
	}
}
