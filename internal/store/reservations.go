// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

const reservationColumns = `r.id, r.property_id, p.title, r.confirmation_code,
	r.guest_name, r.guest_email, r.guest_phone, r.nationality, r.special_requests,
	r.check_in, r.check_out, r.guests, r.status, r.priority, r.admin_notes,
	r.tags, r.total_amount, r.currency, r.emails_sent, r.created_at, r.updated_at`

const reservationFrom = ` FROM reservations r JOIN properties p ON p.id = r.property_id`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var r model.Reservation
	var tags string
	err := row.Scan(&r.ID, &r.PropertyID, &r.PropertyTitle, &r.ConfirmationCode,
		&r.GuestName, &r.GuestEmail, &r.GuestPhone, &r.Nationality,
		&r.SpecialRequests, &r.CheckIn, &r.CheckOut, &r.Guests, &r.Status,
		&r.Priority, &r.AdminNotes, &tags, &r.TotalAmount, &r.Currency,
		&r.EmailsSent, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	r.Tags = unmarshalStrings(tags)
	return r, nil
}

// GetReservationByID returns the reservation with the given ID.
func (q *Queries) GetReservationByID(ctx context.Context, id int64) (model.Reservation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+reservationFrom+` WHERE r.id = ?`, id)
	return scanReservation(row)
}

// ListReservations returns all reservations, newest first.
func (q *Queries) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+reservationColumns+reservationFrom+` ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListStalePendingReservations returns pending reservations created before
// the cutoff, used by the housekeeping job.
func (q *Queries) ListStalePendingReservations(ctx context.Context, cutoff time.Time) ([]model.Reservation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+reservationColumns+reservationFrom+`
		 WHERE r.status = ? AND r.created_at < ?
		 ORDER BY r.created_at ASC`,
		model.ReservationPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing stale reservations: %w", err)
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountReservationsByStatus returns reservation counts keyed by status.
func (q *Queries) CountReservationsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM reservations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting reservations: %w", err)
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

// CreateReservationParams holds the fields for a public booking request.
type CreateReservationParams struct {
	PropertyID       int64
	ConfirmationCode string
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	Nationality      string
	SpecialRequests  string
	CheckIn          time.Time
	CheckOut         time.Time
	Guests           int
	TotalAmount      float64
	Currency         string
}

// CreateReservation inserts a new reservation in pending status and returns it.
func (q *Queries) CreateReservation(ctx context.Context, p CreateReservationParams) (model.Reservation, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO reservations (property_id, confirmation_code, guest_name,
			guest_email, guest_phone, nationality, special_requests, check_in,
			check_out, guests, status, priority, total_amount, currency,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PropertyID, p.ConfirmationCode, p.GuestName, p.GuestEmail,
		p.GuestPhone, p.Nationality, p.SpecialRequests, p.CheckIn, p.CheckOut,
		p.Guests, model.ReservationPending, model.PriorityNormal,
		p.TotalAmount, p.Currency, now, now)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("creating reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reservation{}, fmt.Errorf("reading reservation id: %w", err)
	}
	return q.GetReservationByID(ctx, id)
}

// UpdateReservationDetailsParams holds the admin-editable reservation fields.
type UpdateReservationDetailsParams struct {
	ID         int64
	Priority   string
	AdminNotes string
	Tags       []string
}

// UpdateReservationDetails updates priority, notes and tags.
// Status changes go through UpdateReservationStatus so history stays complete.
func (q *Queries) UpdateReservationDetails(ctx context.Context, p UpdateReservationDetailsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE reservations SET priority = ?, admin_notes = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		p.Priority, p.AdminNotes, marshalJSON(p.Tags, "[]"), time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("updating reservation %d: %w", p.ID, err)
	}
	return nil
}

// UpdateReservationStatus sets a reservation's status.
func (q *Queries) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating reservation %d status: %w", id, err)
	}
	return nil
}

// IncrementReservationEmails bumps the email-notification counter.
func (q *Queries) IncrementReservationEmails(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE reservations SET emails_sent = emails_sent + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

// DeleteReservation removes a reservation and, via cascade, its history.
func (q *Queries) DeleteReservation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reservation %d: %w", id, err)
	}
	return nil
}

// AppendStatusChangeParams holds one history entry.
type AppendStatusChangeParams struct {
	ReservationID int64
	Status        string
	Note          string
	ChangedBy     int64
	ChangedAt     time.Time
}

// AppendStatusChange appends one record to the status history. The history
// is append-only: there is deliberately no update or single-row delete.
func (q *Queries) AppendStatusChange(ctx context.Context, p AppendStatusChangeParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO reservation_status_history (reservation_id, status, note, changed_by, changed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ReservationID, p.Status, p.Note, p.ChangedBy, p.ChangedAt)
	if err != nil {
		return fmt.Errorf("appending status history: %w", err)
	}
	return nil
}

// ListStatusHistory returns a reservation's history, oldest first.
func (q *Queries) ListStatusHistory(ctx context.Context, reservationID int64) ([]model.StatusChange, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, reservation_id, status, note, changed_by, changed_at
		 FROM reservation_status_history
		 WHERE reservation_id = ?
		 ORDER BY changed_at ASC, id ASC`, reservationID)
	if err != nil {
		return nil, fmt.Errorf("listing status history: %w", err)
	}
	defer rows.Close()

	var out []model.StatusChange
	for rows.Next() {
		var c model.StatusChange
		if err := rows.Scan(&c.ID, &c.ReservationID, &c.Status, &c.Note,
			&c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
