// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

const messageColumns = `id, name, email, property_id, subject, body, status, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.PropertyID, &m.Subject,
		&m.Body, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// GetMessageByID returns the contact message with the given ID.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (model.ContactMessage, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM contact_messages WHERE id = ?`, id)
	return scanMessage(row)
}

// ListMessages returns all contact messages, newest first.
func (q *Queries) ListMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []model.ContactMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMessagesByStatus returns message counts keyed by status.
func (q *Queries) CountMessagesByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CreateMessageParams holds the public contact form fields.
type CreateMessageParams struct {
	Name       string
	Email      string
	PropertyID sql.NullInt64
	Subject    string
	Body       string
}

// CreateMessage inserts a new contact message in "new" status and returns it.
func (q *Queries) CreateMessage(ctx context.Context, p CreateMessageParams) (model.ContactMessage, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, property_id, subject, body, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, p.PropertyID, p.Subject, p.Body, model.MessageNew, now, now)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("creating message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("reading message id: %w", err)
	}
	return q.GetMessageByID(ctx, id)
}

// UpdateMessageStatus sets a contact message's status.
func (q *Queries) UpdateMessageStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating message %d: %w", id, err)
	}
	return nil
}

// DeleteMessage removes a contact message.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	return nil
}
