// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Property types.
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeVilla     = "villa"
	PropertyTypeStudio    = "studio"
	PropertyTypeTownhouse = "townhouse"
	PropertyTypePenthouse = "penthouse"
)

// ValidPropertyTypes contains all valid property types.
var ValidPropertyTypes = []string{
	PropertyTypeApartment,
	PropertyTypeVilla,
	PropertyTypeStudio,
	PropertyTypeTownhouse,
	PropertyTypePenthouse,
}

// IsValidPropertyType checks if the given type is one of the known types.
func IsValidPropertyType(t string) bool {
	for _, v := range ValidPropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Property represents a rental listing.
type Property struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"` // Markdown source
	Address         string    `json:"address"`
	Area            string    `json:"area"`
	City            string    `json:"city"`
	Type            string    `json:"type"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	MaxGuests       int       `json:"max_guests"`
	NightlyPrice    float64   `json:"nightly_price"`
	Currency        string    `json:"currency"`
	Images          []string  `json:"images"`
	Rating          float64   `json:"rating"`
	IsActive        bool      `json:"is_active"`
	ApprovedByAdmin bool      `json:"approved_by_admin"`
	Featured        bool      `json:"featured"`
	HostID          int64     `json:"host_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Visible reports whether the listing appears on the public site.
// Both the host-controlled active flag and the admin approval gate must be set.
func (p *Property) Visible() bool {
	return p.IsActive && p.ApprovedByAdmin
}
