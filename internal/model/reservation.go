// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationContacted = "contacted"
	ReservationApproved  = "approved"
	ReservationConfirmed = "confirmed"
	ReservationRejected  = "rejected"
	ReservationCancelled = "cancelled"
)

// ValidReservationStatuses contains all valid reservation statuses.
// Any status may transition to any other via explicit admin action;
// no adjacency graph is enforced.
var ValidReservationStatuses = []string{
	ReservationPending,
	ReservationContacted,
	ReservationApproved,
	ReservationConfirmed,
	ReservationRejected,
	ReservationCancelled,
}

// IsValidReservationStatus checks if the given status is known.
func IsValidReservationStatus(s string) bool {
	for _, v := range ValidReservationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Reservation priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriorities contains all valid reservation priorities.
var ValidPriorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// IsValidPriority checks if the given priority is known.
func IsValidPriority(p string) bool {
	for _, v := range ValidPriorities {
		if v == p {
			return true
		}
	}
	return false
}

// Reservation represents a booking request for a property.
type Reservation struct {
	ID               int64     `json:"id"`
	PropertyID       int64     `json:"property_id"`
	PropertyTitle    string    `json:"property_title,omitempty"` // Joined for list views
	ConfirmationCode string    `json:"confirmation_code"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       string    `json:"guest_email"`
	GuestPhone       string    `json:"guest_phone"`
	Nationality      string    `json:"nationality,omitempty"`
	SpecialRequests  string    `json:"special_requests,omitempty"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Guests           int       `json:"guests"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	AdminNotes       string    `json:"admin_notes,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	TotalAmount      float64   `json:"total_amount"`
	Currency         string    `json:"currency"`
	EmailsSent       int       `json:"emails_sent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Nights returns the length of the stay in nights.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// StatusChange is one entry in a reservation's append-only status history.
type StatusChange struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	ChangedBy     int64     `json:"changed_by,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}
