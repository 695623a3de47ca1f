package domain

import "time"

// ClientStatus marks whether a client is still engaged.
type ClientStatus string

const (
	ClientActive   ClientStatus = "ACTIVE"
	ClientInactive ClientStatus = "INACTIVE"
)

// Client is a converted customer. PortalAccessID is an unguessable capability
// for the read-only client portal and must be unique across clients.
type Client struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Instagram      string       `json:"instagram,omitempty"`
	Since          time.Time    `json:"since"`
	Status         ClientStatus `json:"status"`
	LastContact    time.Time    `json:"lastContact"`
	PortalAccessID string       `json:"portalAccessId"`
	AuditFields
}

func (c *Client) RecordID() string { return c.ID }
func (*Client) Kind() EntityKind   { return KindClient }
