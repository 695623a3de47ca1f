// Package conversion computes the records produced when a lead becomes a client.
// Planning is pure; the caller applies the result as one change set.
package conversion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	downPaymentMethod = "Transfer Bank"
	projectNamePrefix = "Proyek "
)

var validate = validator.New()

// Form is the conversion form as submitted by an admin or the public booking page.
type Form struct {
	Email             string `validate:"omitempty,email,max=254"`
	Phone             string `validate:"max=32"`
	Instagram         string `validate:"max=64"`
	ProjectName       string `validate:"max=200"`
	ProjectType       string `validate:"max=100"`
	Date              time.Time
	Location          string `validate:"max=200"`
	PackageID         string
	AddOnIDs          []string `validate:"dive,required"`
	PromoCodeID       string
	DownPayment       decimal.Decimal
	DestinationCardID string
	Notes             string `validate:"max=2000"`
}

// Catalog is the state the planner reads. Transactions and Members are needed
// to derive the refreshed card and pocket projections.
type Catalog struct {
	Packages     []domain.Package
	AddOns       []domain.AddOn
	PromoCodes   []domain.PromoCode
	Cards        []domain.Card
	IncomePocket *domain.FinancialPocket
	Transactions []domain.Transaction
	Members      []domain.TeamMember
}

// IDs are the identifiers minted for the new records.
type IDs struct {
	ClientID       string
	ProjectID      string
	PortalAccessID string
}

// Input bundles everything a plan depends on.
type Input struct {
	Lead    domain.Lead
	Form    Form
	Catalog Catalog
	IDs     IDs
	Actor   string
	Now     time.Time
}

// Result is every record the conversion creates or changes, plus the price breakdown.
type Result struct {
	Client      domain.Client
	Project     domain.Project
	Transaction *domain.Transaction
	Card        *domain.Card
	Pocket      *domain.FinancialPocket
	PromoCode   *domain.PromoCode
	Lead        domain.Lead

	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	TotalCost decimal.Decimal
	Remaining decimal.Decimal
}

// Plan validates the form against the catalog and computes the conversion.
// It never mutates its input.
func Plan(in Input) (*Result, error) {
	form := in.Form
	if err := validateForm(in.Lead, form); err != nil {
		return nil, err
	}

	pkg, err := findPackage(in.Catalog.Packages, form.PackageID)
	if err != nil {
		return nil, err
	}
	addOns, err := findAddOns(in.Catalog.AddOns, form.AddOnIDs)
	if err != nil {
		return nil, err
	}

	subtotal := pkg.Price
	for _, a := range addOns {
		subtotal = subtotal.Add(a.Price)
	}

	discount := decimal.Zero
	var promo *domain.PromoCode
	if form.PromoCodeID != "" {
		found, err := findPromo(in.Catalog.PromoCodes, form.PromoCodeID)
		if err != nil {
			return nil, err
		}
		if err := found.CheckRedeemable(in.Now); err != nil {
			return nil, err
		}
		discount = found.Discount(subtotal)
		found.UsageCount++
		found.Touch(in.Actor, in.Now)
		promo = &found
	}

	var card *domain.Card
	if form.DownPayment.IsPositive() {
		found, err := findCard(in.Catalog.Cards, form.DestinationCardID)
		if err != nil {
			return nil, err
		}
		card = &found
	}

	totalCost := subtotal.Sub(discount)
	remaining := totalCost.Sub(form.DownPayment)
	today := domain.Today(in.Now)

	client := domain.Client{
		ID:             in.IDs.ClientID,
		Name:           in.Lead.Name,
		Email:          form.Email,
		Phone:          form.Phone,
		Instagram:      form.Instagram,
		Since:          today,
		Status:         domain.ClientActive,
		LastContact:    in.Now,
		PortalAccessID: in.IDs.PortalAccessID,
	}
	client.Stamp(in.Actor, in.Now)

	project := domain.Project{
		ID:            in.IDs.ProjectID,
		ProjectName:   firstNonEmpty(strings.TrimSpace(form.ProjectName), projectNamePrefix+in.Lead.Name),
		ClientID:      client.ID,
		ClientName:    client.Name,
		ProjectType:   form.ProjectType,
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		AddOns:        addOns,
		Date:          form.Date,
		Location:      firstNonEmpty(form.Location, in.Lead.Location),
		Progress:      0,
		Status:        domain.ProjectConfirmed,
		TotalCost:     totalCost,
		AmountPaid:    form.DownPayment,
		PaymentStatus: accounting.PaymentStatusFor(form.DownPayment, totalCost),
		Team:          []domain.ProjectTeamAssignment{},
		Notes:         form.Notes,
		PromoCodeID:   form.PromoCodeID,
	}
	if project.Date.IsZero() {
		project.Date = today
	}
	if discount.IsPositive() {
		project.DiscountAmount = discount
	}
	project.Stamp(in.Actor, in.Now)

	lead := in.Lead
	lead.Status = domain.LeadConverted
	lead.Touch(in.Actor, in.Now)

	result := &Result{
		Client:    client,
		Project:   project,
		Lead:      lead,
		PromoCode: promo,
		Subtotal:  subtotal,
		Discount:  discount,
		TotalCost: totalCost,
		Remaining: remaining,
	}

	if card != nil {
		txn := domain.Transaction{
			ID:            "TRN-DP-" + project.ID,
			Date:          today,
			Description:   domain.CategoryDownPayment + " " + project.ProjectName,
			Amount:        form.DownPayment,
			Type:          domain.Income,
			Category:      domain.CategoryDownPayment,
			Method:        downPaymentMethod,
			ProjectID:     project.ID,
			CardID:        card.ID,
			FlowDirection: domain.FlowCredit,
		}
		if in.Catalog.IncomePocket != nil {
			txn.PocketID = in.Catalog.IncomePocket.ID
		}
		txn.Stamp(in.Actor, in.Now)
		result.Transaction = &txn

		log := append(append([]domain.Transaction(nil), in.Catalog.Transactions...), txn)
		card.Balance = accounting.CardBalance(*card, log)
		card.Touch(in.Actor, in.Now)
		result.Card = card

		if in.Catalog.IncomePocket != nil {
			pocket := *in.Catalog.IncomePocket
			pocket.Amount = accounting.PocketAmount(pocket, accounting.Ledger{Transactions: log, Members: in.Catalog.Members})
			pocket.Touch(in.Actor, in.Now)
			result.Pocket = &pocket
		}
	}

	return result, nil
}

func validateForm(lead domain.Lead, form Form) error {
	if lead.Status == domain.LeadConverted {
		return fmt.Errorf("%w: lead %s has already been converted", apperrors.ErrValidation, lead.ID)
	}
	if lead.Status == domain.LeadRejected {
		return fmt.Errorf("%w: lead %s was rejected", apperrors.ErrValidation, lead.ID)
	}
	if strings.TrimSpace(form.PackageID) == "" {
		return fmt.Errorf("%w: no package selected", apperrors.ErrValidation)
	}
	if form.DownPayment.IsNegative() {
		return fmt.Errorf("%w: down payment cannot be negative", apperrors.ErrValidation)
	}
	if form.DownPayment.IsPositive() && strings.TrimSpace(form.DestinationCardID) == "" {
		return fmt.Errorf("%w: a destination card is required for the down payment", apperrors.ErrValidation)
	}
	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid fields: %s", apperrors.ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func findPackage(pkgs []domain.Package, id string) (domain.Package, error) {
	for _, p := range pkgs {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Package{}, fmt.Errorf("%w: package %s", apperrors.ErrNotFound, id)
}

func findAddOns(all []domain.AddOn, ids []string) ([]domain.AddOn, error) {
	byID := make(map[string]domain.AddOn, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	seen := make(map[string]bool, len(ids))
	out := make([]domain.AddOn, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: add-on %s", apperrors.ErrNotFound, id)
		}
		seen[id] = true
		out = append(out, a)
	}
	return out, nil
}

func findPromo(codes []domain.PromoCode, id string) (domain.PromoCode, error) {
	for _, p := range codes {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.PromoCode{}, fmt.Errorf("%w: promo code %s", apperrors.ErrNotFound, id)
}

func findCard(cards []domain.Card, id string) (domain.Card, error) {
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Card{}, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
