// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "net/http"

// AdminStats handles GET /api/admin/stats: entity counts and per-status
// breakdowns for the dashboard.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	properties, err := h.queries.CountProperties(ctx)
	if err != nil {
		h.logger.Error("counting properties failed", "error", err)
		WriteInternalError(w, "could not load stats")
		return
	}
	users, err := h.queries.CountUsers(ctx)
	if err != nil {
		h.logger.Error("counting users failed", "error", err)
		WriteInternalError(w, "could not load stats")
		return
	}
	reservations, err := h.queries.CountReservationsByStatus(ctx)
	if err != nil {
		h.logger.Error("counting reservations failed", "error", err)
		WriteInternalError(w, "could not load stats")
		return
	}
	messages, err := h.queries.CountMessagesByStatus(ctx)
	if err != nil {
		h.logger.Error("counting messages failed", "error", err)
		WriteInternalError(w, "could not load stats")
		return
	}

	var reservationTotal int64
	for _, n := range reservations {
		reservationTotal += n
	}
	var messageTotal int64
	for _, n := range messages {
		messageTotal += n
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"properties": map[string]any{"total": properties},
		"users":      map[string]any{"total": users},
		"reservations": map[string]any{
			"total":    reservationTotal,
			"byStatus": reservations,
		},
		"messages": map[string]any{
			"total":    messageTotal,
			"byStatus": messages,
		},
	})
}
