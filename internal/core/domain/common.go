package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format used for every date-only field.
const DateLayout = "2006-01-02"

// EntityKind names a collection in the entity store.
type EntityKind string

const (
	KindLead               EntityKind = "leads"
	KindClient             EntityKind = "clients"
	KindProject            EntityKind = "projects"
	KindTransaction        EntityKind = "transactions"
	KindCard               EntityKind = "cards"
	KindPocket             EntityKind = "financial_pockets"
	KindTeamMember         EntityKind = "team_members"
	KindTeamProjectPayment EntityKind = "team_project_payments"
	KindPromoCode          EntityKind = "promo_codes"
	KindPackage            EntityKind = "packages"
	KindAddOn              EntityKind = "add_ons"
)

// AllKinds lists every collection the store knows about.
var AllKinds = []EntityKind{
	KindLead, KindClient, KindProject, KindTransaction, KindCard, KindPocket,
	KindTeamMember, KindTeamProjectPayment, KindPromoCode, KindPackage, KindAddOn,
}

// Record is implemented by every entity that lives in a store collection.
type Record interface {
	RecordID() string
	Kind() EntityKind
	Audit() *AuditFields
}

// AuditFields holds standard audit information for domain entities.
// Version is owned by the store and bumped on every update.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
	Version       int64     `json:"version"`
}

// Audit exposes the embedded audit block through the Record interface.
func (a *AuditFields) Audit() *AuditFields { return a }

// Stamp initialises the audit block for a new record.
func (a *AuditFields) Stamp(userID string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = userID
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// Touch records an update.
func (a *AuditFields) Touch(userID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s", s, DateLayout)
	}
	return t, nil
}

// Today is the calendar day of now, in now's location, expressed as a UTC
// midnight so it compares directly with dates read by ParseDate.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
