package dto

import (
	"time"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to create a client manually.
type CreateClientRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"max=32"`
	Instagram string `json:"instagram" binding:"max=64"`
	Since     string `json:"since" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateClientRequest defines the data allowed for updating a client.
type UpdateClientRequest struct {
	Name      *string              `json:"name" binding:"omitempty,max=200"`
	Email     *string              `json:"email" binding:"omitempty,email"`
	Phone     *string              `json:"phone" binding:"omitempty,max=32"`
	Instagram *string              `json:"instagram" binding:"omitempty,max=64"`
	Status    *domain.ClientStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// PortalClient is the part of a client a portal visitor may see.
type PortalClient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PortalProject is a project as presented on the client portal.
type PortalProject struct {
	ID                   string                `json:"id"`
	ProjectName          string                `json:"projectName"`
	ProjectType          string                `json:"projectType"`
	PackageName          string                `json:"packageName"`
	AddOns               []domain.AddOn        `json:"addOns"`
	Date                 time.Time             `json:"date"`
	Location             string                `json:"location"`
	Status               domain.ProjectStatus  `json:"status"`
	SubStatus            string                `json:"subStatus,omitempty"`
	Progress             int                   `json:"progress"`
	ShippingDetails      string                `json:"shippingDetails,omitempty"`
	TotalCost            decimal.Decimal       `json:"totalCost" swaggertype:"string"`
	DiscountAmount       decimal.Decimal       `json:"discountAmount" swaggertype:"string"`
	AmountPaid           decimal.Decimal       `json:"amountPaid" swaggertype:"string"`
	PaymentStatus        domain.PaymentStatus  `json:"paymentStatus"`
	RemainingBalance     decimal.Decimal       `json:"remainingBalance" swaggertype:"string"`
	RemainingBalanceText string                `json:"remainingBalanceText"`
	Revisions            []domain.Revision     `json:"revisions,omitempty"`
	Payments             []PortalPaymentRecord `json:"payments"`
}

// PortalPaymentRecord is one client payment shown on the portal.
type PortalPaymentRecord struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	AmountText  string          `json:"amountText"`
}

// PortalResponse is the client portal view.
type PortalResponse struct {
	Client   PortalClient    `json:"client"`
	Projects []PortalProject `json:"projects"`
}
