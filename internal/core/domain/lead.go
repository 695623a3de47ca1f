package domain

import "time"

// LeadStatus is a column on the leads kanban board.
type LeadStatus string

const (
	LeadNew        LeadStatus = "NEW"
	LeadDiscussion LeadStatus = "DISCUSSION"
	LeadFollowUp   LeadStatus = "FOLLOW_UP"
	LeadConverted  LeadStatus = "CONVERTED"
	LeadRejected   LeadStatus = "REJECTED"
)

// IsValid reports whether s is a known lead status.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadDiscussion, LeadFollowUp, LeadConverted, LeadRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the lead can no longer move on the board.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadConverted || s == LeadRejected
}

// ContactChannel is where the lead came from.
type ContactChannel string

const (
	ChannelInstagram      ContactChannel = "INSTAGRAM"
	ChannelWhatsApp       ContactChannel = "WHATSAPP"
	ChannelReferral       ContactChannel = "REFERRAL"
	ChannelWebsite        ContactChannel = "WEBSITE"
	ChannelSuggestionForm ContactChannel = "SUGGESTION_FORM"
	ChannelOther          ContactChannel = "OTHER"
)

// NormalizeContactChannel maps unknown or empty values to OTHER.
func NormalizeContactChannel(c ContactChannel) ContactChannel {
	switch c {
	case ChannelInstagram, ChannelWhatsApp, ChannelReferral, ChannelWebsite, ChannelSuggestionForm:
		return c
	}
	return ChannelOther
}

// Lead is an unconverted sales prospect.
type Lead struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ContactChannel ContactChannel `json:"contactChannel"`
	Location       string         `json:"location"`
	Status         LeadStatus     `json:"status"`
	Date           time.Time      `json:"date"`
	Notes          string         `json:"notes,omitempty"`
	AuditFields
}

func (l *Lead) RecordID() string { return l.ID }
func (*Lead) Kind() EntityKind   { return KindLead }
