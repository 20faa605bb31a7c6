// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/orent-go/internal/auth"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
)

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if h.protection != nil && !h.protection.CheckIPRateLimit(ip) {
		WriteError(w, http.StatusTooManyRequests, "too many login attempts, slow down")
		return
	}

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "email and password are required")
		return
	}

	if h.protection != nil {
		if locked, remaining := h.protection.IsAccountLocked(req.Email); locked {
			h.logger.Warn("login attempt on locked account", "email", req.Email)
			WriteError(w, http.StatusTooManyRequests,
				"account temporarily locked, try again in "+remaining.Round(time.Second).String())
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.recordLoginFailure(req.Email)
		WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.recordLoginFailure(req.Email)
		WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !user.Approved {
		WriteError(w, http.StatusForbidden, "account pending approval")
		return
	}

	// New session token on privilege change.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.logger.Error("session renew failed", "error", err)
		WriteInternalError(w, "could not establish session")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	if err := h.queries.TouchUserLogin(r.Context(), user.ID); err != nil {
		h.logger.Error("recording login time failed", "error", err, "user_id", user.ID)
	}
	if h.protection != nil {
		h.protection.RecordSuccessfulLogin(req.Email)
	}
	h.logger.Info("user logged in", "category", model.EventCategoryAuth, "user_id", user.ID)

	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) recordLoginFailure(email string) {
	if h.protection == nil {
		return
	}
	if locked, dur := h.protection.RecordFailedAttempt(email); locked {
		h.logger.Warn("account locked", "category", model.EventCategoryAuth,
			"email", email, "duration", dur)
	}
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.logger.Error("session destroy failed", "error", err)
		WriteInternalError(w, "could not end session")
		return
	}
	if userID != 0 {
		h.logger.Info("user logged out", "category", model.EventCategoryAuth, "user_id", userID)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
