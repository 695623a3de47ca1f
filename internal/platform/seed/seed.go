// Package seed loads the studio's starting catalog and accounts from a TOML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// SystemUserID stamps records that were created by seeding.
const SystemUserID = "system"

type Package struct {
	ID          string          `toml:"id"`
	Name        string          `toml:"name"`
	Price       decimal.Decimal `toml:"price"`
	Description string          `toml:"description"`
	Items       []string        `toml:"items"`
}

type AddOn struct {
	ID    string          `toml:"id"`
	Name  string          `toml:"name"`
	Price decimal.Decimal `toml:"price"`
}

type PromoCode struct {
	ID            string          `toml:"id"`
	Code          string          `toml:"code"`
	DiscountType  string          `toml:"discount_type"`
	DiscountValue decimal.Decimal `toml:"discount_value"`
	MaxUsage      *int            `toml:"max_usage"`
	ExpiryDate    string          `toml:"expiry_date"`
}

type Card struct {
	ID             string `toml:"id"`
	CardHolderName string `toml:"holder"`
	BankName       string `toml:"bank"`
	CardType       string `toml:"type"`
	LastFourDigits string `toml:"last_four"`
	ExpiryDate     string `toml:"expiry"`
}

type Pocket struct {
	ID           string           `toml:"id"`
	Name         string           `toml:"name"`
	Description  string           `toml:"description"`
	Type         string           `toml:"type"`
	GoalAmount   *decimal.Decimal `toml:"goal_amount"`
	LockEndDate  string           `toml:"lock_end_date"`
	SourceCardID string           `toml:"source_card"`
}

type TeamMember struct {
	ID          string          `toml:"id"`
	Name        string          `toml:"name"`
	Role        string          `toml:"role"`
	Email       string          `toml:"email"`
	Phone       string          `toml:"phone"`
	StandardFee decimal.Decimal `toml:"standard_fee"`
}

// File is the decoded seed document. Amounts are written as strings so they
// decode exactly into decimals.
type File struct {
	Packages    []Package    `toml:"package"`
	AddOns      []AddOn      `toml:"add_on"`
	PromoCodes  []PromoCode  `toml:"promo_code"`
	Cards       []Card       `toml:"card"`
	Pockets     []Pocket     `toml:"pocket"`
	TeamMembers []TeamMember `toml:"team_member"`
}

// Load decodes a seed file. Unknown keys are rejected so typos do not
// silently drop records.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("seed file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// LoadIfExists is Load, but a missing file yields (nil, nil).
func LoadIfExists(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return Load(path)
}

// Apply writes every seeded record in one change set. It does nothing and
// returns zero when the store already holds packages or cards, so restarting
// a server never duplicates or overwrites live data.
func Apply(ctx context.Context, repos portsrepo.RepositoryProvider, f *File, now time.Time) (int, error) {
	if f == nil {
		return 0, nil
	}
	populated, err := isPopulated(ctx, repos)
	if err != nil {
		return 0, err
	}
	if populated {
		slog.InfoContext(ctx, "Store already populated, skipping seed")
		return 0, nil
	}

	records, err := f.records()
	if err != nil {
		return 0, err
	}
	cs := portsrepo.NewChangeSet()
	for _, rec := range records {
		rec.Audit().Stamp(SystemUserID, now)
		if err := cs.Insert(rec); err != nil {
			return 0, err
		}
	}
	if err := repos.UnitOfWork.Apply(ctx, cs); err != nil {
		return 0, fmt.Errorf("failed to apply seed: %w", err)
	}
	slog.InfoContext(ctx, "Seed applied", slog.Int("records", cs.Len()))
	return cs.Len(), nil
}

func isPopulated(ctx context.Context, repos portsrepo.RepositoryProvider) (bool, error) {
	pkgs, err := repos.PackageRepo.List(ctx)
	if err != nil {
		return false, err
	}
	cards, err := repos.CardRepo.List(ctx)
	if err != nil {
		return false, err
	}
	return len(pkgs) > 0 || len(cards) > 0, nil
}

func (f *File) records() ([]domain.Record, error) {
	var out []domain.Record
	for _, p := range f.Packages {
		out = append(out, &domain.Package{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description, Items: p.Items})
	}
	for _, a := range f.AddOns {
		out = append(out, &domain.AddOn{ID: a.ID, Name: a.Name, Price: a.Price})
	}
	for _, p := range f.PromoCodes {
		promo := &domain.PromoCode{
			ID:            p.ID,
			Code:          strings.ToUpper(strings.TrimSpace(p.Code)),
			DiscountType:  domain.DiscountType(p.DiscountType),
			DiscountValue: p.DiscountValue,
			IsActive:      true,
			MaxUsage:      p.MaxUsage,
		}
		if p.ExpiryDate != "" {
			d, err := domain.ParseDate(p.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("promo code %s: %w", p.ID, err)
			}
			promo.ExpiryDate = &d
		}
		if err := promo.Validate(); err != nil {
			return nil, fmt.Errorf("promo code %s: %w", p.ID, err)
		}
		out = append(out, promo)
	}
	for _, c := range f.Cards {
		out = append(out, &domain.Card{
			ID:             c.ID,
			CardHolderName: c.CardHolderName,
			BankName:       c.BankName,
			CardType:       domain.CardType(c.CardType),
			LastFourDigits: c.LastFourDigits,
			ExpiryDate:     c.ExpiryDate,
		})
	}
	for _, p := range f.Pockets {
		pocket := &domain.FinancialPocket{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Type:         domain.PocketType(p.Type),
			GoalAmount:   p.GoalAmount,
			SourceCardID: p.SourceCardID,
		}
		if !pocket.Type.IsValid() {
			return nil, fmt.Errorf("pocket %s: unknown type %q", p.ID, p.Type)
		}
		if p.LockEndDate != "" {
			d, err := domain.ParseDate(p.LockEndDate)
			if err != nil {
				return nil, fmt.Errorf("pocket %s: %w", p.ID, err)
			}
			pocket.LockEndDate = &d
		}
		out = append(out, pocket)
	}
	for _, m := range f.TeamMembers {
		out = append(out, &domain.TeamMember{ID: m.ID, Name: m.Name, Role: m.Role, Email: m.Email, Phone: m.Phone, StandardFee: m.StandardFee})
	}
	return out, nil
}
