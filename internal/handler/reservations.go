// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/orent-go/internal/listquery"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
)

// reservationSchema drives the admin reservations list. Search matches
// guest name, email, confirmation code and property title.
var reservationSchema = listquery.Schema[model.Reservation]{
	SearchFields: []func(model.Reservation) string{
		func(r model.Reservation) string { return r.GuestName },
		func(r model.Reservation) string { return r.GuestEmail },
		func(r model.Reservation) string { return r.ConfirmationCode },
		func(r model.Reservation) string { return r.PropertyTitle },
	},
	Filters: map[string]func(model.Reservation, string) bool{
		"status":   func(r model.Reservation, v string) bool { return r.Status == v },
		"priority": func(r model.Reservation, v string) bool { return r.Priority == v },
		"tag": func(r model.Reservation, v string) bool {
			for _, t := range r.Tags {
				if strings.EqualFold(t, v) {
					return true
				}
			}
			return false
		},
	},
	SortKeys: map[string]listquery.SortKey[model.Reservation]{
		"guest":    {String: func(r model.Reservation) string { return r.GuestName }},
		"property": {String: func(r model.Reservation) string { return r.PropertyTitle }},
		"status":   {String: func(r model.Reservation) string { return r.Status }},
		"check_in": {Time: func(r model.Reservation) time.Time { return r.CheckIn }},
		"amount":   {Number: func(r model.Reservation) float64 { return r.TotalAmount }},
		"created":  {Time: func(r model.Reservation) time.Time { return r.CreatedAt }},
	},
	DefaultSort: "created",
}

// filterDateRange keeps reservations whose check-in falls inside the
// optional date_from/date_to bounds (inclusive).
func filterDateRange(items []model.Reservation, from, to string) ([]model.Reservation, error) {
	if from == "" && to == "" {
		return items, nil
	}

	var fromT, toT time.Time
	var err error
	if from != "" {
		if fromT, err = time.Parse("2006-01-02", from); err != nil {
			return nil, fmt.Errorf("invalid date_from")
		}
	}
	if to != "" {
		if toT, err = time.Parse("2006-01-02", to); err != nil {
			return nil, fmt.Errorf("invalid date_to")
		}
		toT = toT.AddDate(0, 0, 1)
	}

	out := make([]model.Reservation, 0, len(items))
	for _, r := range items {
		if from != "" && r.CheckIn.Before(fromT) {
			continue
		}
		if to != "" && !r.CheckIn.Before(toT) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ListReservations handles GET /api/admin/reservations.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListReservations(r.Context())
	if err != nil {
		h.logger.Error("listing reservations failed", "error", err)
		WriteInternalError(w, "could not load reservations")
		return
	}

	items, err = filterDateRange(items, r.URL.Query().Get("date_from"), r.URL.Query().Get("date_to"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	req := ParseListRequest(r, "status", "priority", "tag")
	res := listquery.Apply(reservationSchema, items, req)
	WriteJSON(w, http.StatusOK, listEnvelope("reservations", res))
}

// ExportReservations handles GET /api/admin/reservations/export. The same
// search and filter parameters as the list apply; pagination does not.
func (h *Handler) ExportReservations(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListReservations(r.Context())
	if err != nil {
		h.logger.Error("listing reservations failed", "error", err)
		WriteInternalError(w, "could not export reservations")
		return
	}

	items, err = filterDateRange(items, r.URL.Query().Get("date_from"), r.URL.Query().Get("date_to"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	req := ParseListRequest(r, "status", "priority", "tag")
	items = listquery.Filter(reservationSchema, items, req.Search, req.Filters)
	listquery.Sort(reservationSchema, items, req.SortField, req.SortOrder)

	filename := "reservations-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(service.ReservationsCSV(items))

	h.audit(r, model.EventCategoryReservation, "reservations exported",
		fmt.Sprintf(`{"count":"%d"}`, len(items)))
}

// CreateReservationRequest is the body for the public POST /api/reservations.
type CreateReservationRequest struct {
	PropertyID      int64  `json:"property_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	Nationality     string `json:"nationality,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
}

// CreateReservation handles POST /api/reservations. Bookings open in
// pending status with a generated confirmation code; the total is the
// nightly price times the stay length.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if req.GuestName == "" || req.GuestEmail == "" {
		WriteBadRequest(w, "guest name and email are required")
		return
	}
	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		WriteBadRequest(w, "invalid check_in date")
		return
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		WriteBadRequest(w, "invalid check_out date")
		return
	}
	if !checkOut.After(checkIn) {
		WriteBadRequest(w, "check-out must be after check-in")
		return
	}
	if req.Guests < 1 {
		WriteBadRequest(w, "at least one guest is required")
		return
	}

	property, err := h.queries.GetPropertyByID(r.Context(), req.PropertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("loading property failed", "error", err, "property_id", req.PropertyID)
		WriteInternalError(w, "could not create reservation")
		return
	}
	if !property.Visible() {
		WriteNotFound(w, "property not found")
		return
	}
	if req.Guests > property.MaxGuests {
		WriteBadRequest(w, fmt.Sprintf("property sleeps at most %d guests", property.MaxGuests))
		return
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	reservation, err := h.queries.CreateReservation(r.Context(), store.CreateReservationParams{
		PropertyID:       property.ID,
		ConfirmationCode: uuid.NewString(),
		GuestName:        req.GuestName,
		GuestEmail:       req.GuestEmail,
		GuestPhone:       req.GuestPhone,
		Nationality:      req.Nationality,
		SpecialRequests:  req.SpecialRequests,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Guests:           req.Guests,
		TotalAmount:      property.NightlyPrice * float64(nights),
		Currency:         property.Currency,
	})
	if err != nil {
		h.logger.Error("creating reservation failed", "error", err)
		WriteInternalError(w, "could not create reservation")
		return
	}

	h.logger.Info("reservation created", "category", model.EventCategoryReservation,
		"reservation_id", reservation.ID, "property_id", property.ID)
	WriteJSON(w, http.StatusCreated, map[string]any{"reservation": reservation})
}

// GetReservation handles GET /api/admin/reservations/{id}.
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	reservation, err := h.queries.GetReservationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "reservation not found")
			return
		}
		h.logger.Error("loading reservation failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not load reservation")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reservation": reservation})
}

// ReservationHistory handles GET /api/admin/reservations/{id}/history and
// returns the append-only status trail, oldest first.
func (h *Handler) ReservationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if _, err := h.queries.GetReservationByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "reservation not found")
			return
		}
		h.logger.Error("loading reservation failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not load reservation")
		return
	}

	history, err := h.queries.ListStatusHistory(r.Context(), id)
	if err != nil {
		h.logger.Error("loading status history failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not load status history")
		return
	}
	if history == nil {
		history = []model.StatusChange{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}

// UpdateReservationRequest is the body for PATCH /api/admin/reservations/{id}.
// Status is deliberately absent: status changes go through the dedicated
// endpoint so the history stays complete.
type UpdateReservationRequest struct {
	Priority   *string   `json:"priority,omitempty"`
	AdminNotes *string   `json:"admin_notes,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	reservation, err := h.queries.GetReservationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "reservation not found")
			return
		}
		h.logger.Error("loading reservation failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not load reservation")
		return
	}

	var req UpdateReservationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	params := store.UpdateReservationDetailsParams{
		ID:         reservation.ID,
		Priority:   reservation.Priority,
		AdminNotes: reservation.AdminNotes,
		Tags:       reservation.Tags,
	}
	if req.Priority != nil {
		if !model.IsValidPriority(*req.Priority) {
			WriteBadRequest(w, "unknown priority "+strconv.Quote(*req.Priority))
			return
		}
		params.Priority = *req.Priority
	}
	if req.AdminNotes != nil {
		params.AdminNotes = *req.AdminNotes
	}
	if req.Tags != nil {
		params.Tags = *req.Tags
	}

	if err := h.queries.UpdateReservationDetails(r.Context(), params); err != nil {
		h.logger.Error("updating reservation failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not update reservation")
		return
	}

	updated, err := h.queries.GetReservationByID(r.Context(), id)
	if err != nil {
		h.logger.Error("reloading reservation failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not load reservation")
		return
	}

	h.audit(r, model.EventCategoryReservation, "reservation updated",
		fmt.Sprintf(`{"reservation_id":"%d"}`, id))
	WriteJSON(w, http.StatusOK, map[string]any{"reservation": updated})
}

// ChangeStatusRequest is the body for POST /api/admin/reservations/{id}/status.
type ChangeStatusRequest struct {
	Status        string `json:"status"`
	Note          string `json:"note,omitempty"`
	SendEmail     bool   `json:"send_email,omitempty"`
	CustomMessage string `json:"custom_message,omitempty"`
}

// ChangeReservationStatus transitions a reservation and appends exactly
// one history record. With send_email set, the guest is notified and the
// sent counter incremented.
func (h *Handler) ChangeReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	reservation, err := h.reservations.ChangeStatus(r.Context(), service.StatusChangeRequest{
		ReservationID: id,
		Status:        req.Status,
		Note:          req.Note,
		ChangedBy:     middleware.GetUserID(r),
		SendEmail:     req.SendEmail,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "reservation not found")
			return
		}
		if errors.Is(err, service.ErrUnknownStatus) {
			WriteBadRequest(w, err.Error())
			return
		}
		h.logger.Error("status change failed", "error", err, "reservation_id", id)
		WriteInternalError(w, "could not change status")
		return
	}

	h.audit(r, model.EventCategoryReservation, "reservation status changed",
		fmt.Sprintf(`{"reservation_id":"%d","status":"%s"}`, id, reservation.Status))
	WriteJSON(w, http.StatusOK, map[string]any{"reservation": reservation})
}

// BulkReservationsRequest is the body for POST /api/admin/reservations/bulk.
type BulkReservationsRequest struct {
	Action    string  `json:"action"`
	IDs       []int64 `json:"ids"`
	Status    string  `json:"status,omitempty"`
	Priority  string  `json:"priority,omitempty"`
	SendEmail bool    `json:"send_email,omitempty"`
}

// BulkReservations applies one action to many reservations, continuing
// past per-item failures.
func (h *Handler) BulkReservations(w http.ResponseWriter, r *http.Request) {
	var req BulkReservationsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	changedBy := middleware.GetUserID(r)
	var op func(ctx context.Context, id int64) error
	switch req.Action {
	case "status":
		if !model.IsValidReservationStatus(req.Status) {
			WriteBadRequest(w, "unknown status "+strconv.Quote(req.Status))
			return
		}
		op = func(ctx context.Context, id int64) error {
			_, err := h.reservations.ChangeStatus(ctx, service.StatusChangeRequest{
				ReservationID: id,
				Status:        req.Status,
				Note:          "bulk status change",
				ChangedBy:     changedBy,
				SendEmail:     req.SendEmail,
			})
			return err
		}
	case "priority":
		if !model.IsValidPriority(req.Priority) {
			WriteBadRequest(w, "unknown priority "+strconv.Quote(req.Priority))
			return
		}
		op = func(ctx context.Context, id int64) error {
			res, err := h.queries.GetReservationByID(ctx, id)
			if err != nil {
				return err
			}
			return h.queries.UpdateReservationDetails(ctx, store.UpdateReservationDetailsParams{
				ID:         res.ID,
				Priority:   req.Priority,
				AdminNotes: res.AdminNotes,
				Tags:       res.Tags,
			})
		}
	case "delete":
		op = func(ctx context.Context, id int64) error {
			if _, err := h.queries.GetReservationByID(ctx, id); err != nil {
				return err
			}
			return h.queries.DeleteReservation(ctx, id)
		}
	default:
		WriteBadRequest(w, "unknown action "+strconv.Quote(req.Action))
		return
	}

	result := service.RunBatch(r.Context(), req.IDs, op)
	h.audit(r, model.EventCategoryReservation, "bulk reservation "+req.Action,
		fmt.Sprintf(`{"requested":"%d","succeeded":"%d"}`, len(req.IDs), len(result.Succeeded)))
	WriteJSON(w, http.StatusOK, result)
}
