// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/store"
)

// ErrUnknownStatus is returned for a status outside the known set.
var ErrUnknownStatus = errors.New("unknown reservation status")

// Mailer sends a notification email. Implementations must be safe for
// concurrent use; the SMTP sender and the disabled no-op both qualify.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Reservations owns the reservation status workflow: transitions, the
// append-only history, and optional guest notifications.
type Reservations struct {
	db     *sql.DB
	mailer Mailer
}

// NewReservations creates the reservation workflow service.
func NewReservations(db *sql.DB, mailer Mailer) *Reservations {
	return &Reservations{db: db, mailer: mailer}
}

// StatusChangeRequest describes one explicit admin status transition.
type StatusChangeRequest struct {
	ReservationID int64
	Status        string
	Note          string
	ChangedBy     int64
	// SendEmail forwards the change to the guest's email address.
	SendEmail bool
	// CustomMessage replaces the default notification body when set.
	CustomMessage string
}

// ChangeStatus transitions a reservation to the requested status. Any
// status may move to any other; every change appends exactly one history
// record. The status update and the history append commit together, then
// the optional notification is sent outside the transaction.
func (s *Reservations) ChangeStatus(ctx context.Context, req StatusChangeRequest) (model.Reservation, error) {
	if !model.IsValidReservationStatus(req.Status) {
		return model.Reservation{}, fmt.Errorf("%w %q", ErrUnknownStatus, req.Status)
	}

	queries := store.New(s.db)
	res, err := queries.GetReservationByID(ctx, req.ReservationID)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("loading reservation %d: %w", req.ReservationID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("beginning status change: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	txQueries := queries.WithTx(tx)
	if err := txQueries.UpdateReservationStatus(ctx, req.ReservationID, req.Status); err != nil {
		return model.Reservation{}, err
	}
	if err := txQueries.AppendStatusChange(ctx, store.AppendStatusChangeParams{
		ReservationID: req.ReservationID,
		Status:        req.Status,
		Note:          req.Note,
		ChangedBy:     req.ChangedBy,
		ChangedAt:     time.Now().UTC(),
	}); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, fmt.Errorf("committing status change: %w", err)
	}

	if req.SendEmail {
		s.notifyGuest(ctx, queries, res, req)
	}

	return queries.GetReservationByID(ctx, req.ReservationID)
}

// notifyGuest sends the status notification and bumps the email counter.
// A failed send is logged, not surfaced: the transition already committed.
func (s *Reservations) notifyGuest(ctx context.Context, queries *store.Queries, res model.Reservation, req StatusChangeRequest) {
	subject := fmt.Sprintf("Your reservation %s is now %s", res.ConfirmationCode, req.Status)
	body := req.CustomMessage
	if body == "" {
		body = fmt.Sprintf(
			"Hello %s,\n\nThe status of your reservation for %q (%s to %s) changed to %s.\n",
			res.GuestName, res.PropertyTitle,
			res.CheckIn.Format("2006-01-02"), res.CheckOut.Format("2006-01-02"),
			req.Status)
	}

	if err := s.mailer.Send(ctx, res.GuestEmail, subject, body); err != nil {
		slog.Error("sending reservation notification failed",
			"reservation_id", res.ID, "error", err)
		return
	}
	if err := queries.IncrementReservationEmails(ctx, res.ID); err != nil {
		slog.Error("incrementing email counter failed",
			"reservation_id", res.ID, "error", err)
	}
}

// ExpireStalePending cancels pending reservations older than maxAge,
// appending a history record for each. Used by the housekeeping job.
func (s *Reservations) ExpireStalePending(ctx context.Context, maxAge time.Duration) (BatchResult, error) {
	queries := store.New(s.db)
	cutoff := time.Now().UTC().Add(-maxAge)

	stale, err := queries.ListStalePendingReservations(ctx, cutoff)
	if err != nil {
		return BatchResult{}, err
	}

	ids := make([]int64, len(stale))
	for i, r := range stale {
		ids[i] = r.ID
	}

	result := RunBatch(ctx, ids, func(ctx context.Context, id int64) error {
		_, err := s.ChangeStatus(ctx, StatusChangeRequest{
			ReservationID: id,
			Status:        model.ReservationCancelled,
			Note:          "auto-cancelled: no response within the pending window",
		})
		return err
	})
	return result, nil
}
