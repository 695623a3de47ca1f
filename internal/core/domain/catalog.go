package domain

import "github.com/shopspring/decimal"

// Package is a sellable service bundle.
type Package struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
	Items       []string        `json:"items,omitempty"`
	AuditFields
}

func (p *Package) RecordID() string { return p.ID }
func (*Package) Kind() EntityKind   { return KindPackage }

// AddOn is an optional extra sold on top of a package.
type AddOn struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price" swaggertype:"string"`
	AuditFields
}

func (a *AddOn) RecordID() string { return a.ID }
func (*AddOn) Kind() EntityKind   { return KindAddOn }
