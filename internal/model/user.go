// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Property, Reservation, User, ContactMessage and
// the settings aggregate.
package model

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleGuest    = "guest"
	RoleHost     = "host"
	RoleAdmin    = "admin"
	RoleSubAdmin = "subadmin"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleGuest, RoleHost, RoleAdmin, RoleSubAdmin}

// IsValidRole checks if the given role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Permissions is the closed set of capabilities a sub-admin may hold.
// Unknown permission keys cannot exist: the set is a struct, not a map.
type Permissions struct {
	ApproveUsers      bool `json:"approve_users"`
	DeleteUsers       bool `json:"delete_users"`
	ManageListings    bool `json:"manage_listings"`
	ViewBookings      bool `json:"view_bookings"`
	ManageSettings    bool `json:"manage_settings"`
	AccessMaintenance bool `json:"access_maintenance"`
	PermanentDelete   bool `json:"permanent_delete"`
}

// FullPermissions returns the permission set granted implicitly to admins.
func FullPermissions() Permissions {
	return Permissions{
		ApproveUsers:      true,
		DeleteUsers:       true,
		ManageListings:    true,
		ViewBookings:      true,
		ManageSettings:    true,
		AccessMaintenance: true,
		PermanentDelete:   true,
	}
}

// User represents a marketplace user.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Name         string       `json:"name"`
	Phone        string       `json:"phone,omitempty"`
	Role         string       `json:"role"`
	Approved     bool         `json:"approved"`
	Permissions  Permissions  `json:"permissions"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Can reports whether the user holds the capability selected by check.
// Admins hold every capability; sub-admins only what was granted.
func (u *User) Can(check func(Permissions) bool) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleSubAdmin:
		return check(u.Permissions)
	default:
		return false
	}
}
