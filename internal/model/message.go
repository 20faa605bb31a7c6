// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Contact message statuses.
const (
	MessageNew     = "new"
	MessageRead    = "read"
	MessageReplied = "replied"
	MessageClosed  = "closed"
)

// ValidMessageStatuses contains all valid contact message statuses.
var ValidMessageStatuses = []string{MessageNew, MessageRead, MessageReplied, MessageClosed}

// IsValidMessageStatus checks if the given status is known.
func IsValidMessageStatus(s string) bool {
	for _, v := range ValidMessageStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ContactMessage represents an inquiry sent through the public contact form.
type ContactMessage struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	PropertyID sql.NullInt64 `json:"property_id,omitempty"` // Optional related listing
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
