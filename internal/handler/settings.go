// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/store"
)

// GetSettings handles GET /api/admin/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.LoadSettings(r.Context())
	if err != nil {
		h.logger.Error("loading settings failed", "error", err)
		WriteInternalError(w, "could not load settings")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// PutSettings handles PUT /api/admin/settings. The aggregate is saved
// wholesale in one transaction; there is no per-section endpoint.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := DecodeJSON(r, &settings); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if settings.General.SiteName == "" {
		WriteBadRequest(w, "site name is required")
		return
	}
	if settings.Security.SessionLifetimeHours < 1 {
		WriteBadRequest(w, "session lifetime must be at least one hour")
		return
	}

	if err := store.SaveSettings(r.Context(), h.db, settings, middleware.GetUserID(r)); err != nil {
		h.logger.Error("saving settings failed", "error", err)
		WriteInternalError(w, "could not save settings")
		return
	}

	saved, err := h.queries.LoadSettings(r.Context())
	if err != nil {
		h.logger.Error("reloading settings failed", "error", err)
		WriteInternalError(w, "could not load settings")
		return
	}

	h.audit(r, model.EventCategoryConfig, "settings saved", "")
	WriteJSON(w, http.StatusOK, map[string]any{"settings": saved})
}
