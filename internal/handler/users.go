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

	"github.com/olegiv/orent-go/internal/auth"
	"github.com/olegiv/orent-go/internal/listquery"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
)

var userSchema = listquery.Schema[model.User]{
	SearchFields: []func(model.User) string{
		func(u model.User) string { return u.Name },
		func(u model.User) string { return u.Email },
	},
	Filters: map[string]func(model.User, string) bool{
		"role": func(u model.User, v string) bool { return u.Role == v },
		"approved": func(u model.User, v string) bool {
			switch v {
			case "true":
				return u.Approved
			case "false":
				return !u.Approved
			default:
				return false
			}
		},
	},
	SortKeys: map[string]listquery.SortKey[model.User]{
		"name":    {String: func(u model.User) string { return u.Name }},
		"email":   {String: func(u model.User) string { return u.Email }},
		"role":    {String: func(u model.User) string { return u.Role }},
		"created": {Time: func(u model.User) time.Time { return u.CreatedAt }},
	},
	DefaultSort: "created",
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		WriteInternalError(w, "could not load users")
		return
	}
	req := ParseListRequest(r, "role", "approved")
	res := listquery.Apply(userSchema, items, req)
	WriteJSON(w, http.StatusOK, listEnvelope("users", res))
}

// CreateUserRequest is the body for POST /api/admin/users.
type CreateUserRequest struct {
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone,omitempty"`
	Role        string             `json:"role"`
	Approved    bool               `json:"approved"`
	Permissions *model.Permissions `json:"permissions,omitempty"`
}

// CreateUser handles POST /api/admin/users. Permissions apply only to
// sub-admins; for other roles the stored set stays empty.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.Name == "" {
		WriteBadRequest(w, "email, password and name are required")
		return
	}
	if !model.IsValidRole(req.Role) {
		WriteBadRequest(w, "unknown role "+strconv.Quote(req.Role))
		return
	}
	if _, err := h.queries.GetUserByEmail(r.Context(), req.Email); err == nil {
		WriteError(w, http.StatusConflict, "a user with this email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.Error("checking email failed", "error", err)
		WriteInternalError(w, "could not create user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hashing password failed", "error", err)
		WriteInternalError(w, "could not create user")
		return
	}

	var perms model.Permissions
	if req.Role == model.RoleSubAdmin && req.Permissions != nil {
		perms = *req.Permissions
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		Approved:     req.Approved,
		Permissions:  perms,
	})
	if err != nil {
		h.logger.Error("creating user failed", "error", err)
		WriteInternalError(w, "could not create user")
		return
	}

	h.audit(r, model.EventCategoryUser, "user created",
		fmt.Sprintf(`{"user_id":"%d","role":"%s"}`, user.ID, user.Role))
	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// UpdateUserRequest is the body for PATCH /api/admin/users/{id}.
type UpdateUserRequest struct {
	Name        *string            `json:"name,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Role        *string            `json:"role,omitempty"`
	Approved    *bool              `json:"approved,omitempty"`
	Permissions *model.Permissions `json:"permissions,omitempty"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "user not found")
			return
		}
		h.logger.Error("loading user failed", "error", err, "user_id", id)
		WriteInternalError(w, "could not load user")
		return
	}

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	params := store.UpdateUserParams{
		ID:          user.ID,
		Name:        user.Name,
		Phone:       user.Phone,
		Role:        user.Role,
		Approved:    user.Approved,
		Permissions: user.Permissions,
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Phone != nil {
		params.Phone = *req.Phone
	}
	if req.Role != nil {
		if !model.IsValidRole(*req.Role) {
			WriteBadRequest(w, "unknown role "+strconv.Quote(*req.Role))
			return
		}
		params.Role = *req.Role
	}
	if req.Approved != nil {
		params.Approved = *req.Approved
	}
	if req.Permissions != nil {
		params.Permissions = *req.Permissions
	}

	// Only admins may change roles or grant permissions; sub-admins with
	// the approval permission are limited to the approval switch.
	actor := middleware.GetUser(r)
	if actor != nil && actor.Role != model.RoleAdmin {
		if req.Role != nil || req.Permissions != nil {
			WriteError(w, http.StatusForbidden, "only admins can change roles or permissions")
			return
		}
	}

	if err := h.queries.UpdateUser(r.Context(), params); err != nil {
		h.logger.Error("updating user failed", "error", err, "user_id", id)
		WriteInternalError(w, "could not update user")
		return
	}

	updated, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		h.logger.Error("reloading user failed", "error", err, "user_id", id)
		WriteInternalError(w, "could not load user")
		return
	}

	h.audit(r, model.EventCategoryUser, "user updated",
		fmt.Sprintf(`{"user_id":"%d"}`, id))
	WriteJSON(w, http.StatusOK, map[string]any{"user": updated})
}

// DeleteUser handles DELETE /api/admin/users/{id}. Self-deletion is
// rejected so an admin cannot lock themselves out mid-session.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if id == middleware.GetUserID(r) {
		WriteBadRequest(w, "you cannot delete your own account")
		return
	}
	if err := h.deleteUserByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "user not found")
			return
		}
		h.logger.Error("deleting user failed", "error", err, "user_id", id)
		WriteInternalError(w, "could not delete user")
		return
	}
	h.audit(r, model.EventCategoryUser, "user deleted",
		fmt.Sprintf(`{"user_id":"%d"}`, id))
	WriteJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *Handler) deleteUserByID(ctx context.Context, id int64) error {
	if _, err := h.queries.GetUserByID(ctx, id); err != nil {
		return err
	}
	return h.queries.DeleteUser(ctx, id)
}

// BulkUsersRequest is the body for POST /api/admin/users/bulk.
type BulkUsersRequest struct {
	Action string  `json:"action"`
	IDs    []int64 `json:"ids"`
}

func (h *Handler) BulkUsers(w http.ResponseWriter, r *http.Request) {
	var req BulkUsersRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	actor := middleware.GetUser(r)
	selfID := middleware.GetUserID(r)

	var op func(ctx context.Context, id int64) error
	switch req.Action {
	case "approve", "unapprove":
		if actor != nil && !actor.Can(func(p model.Permissions) bool { return p.ApproveUsers }) {
			WriteError(w, http.StatusForbidden, "permission denied")
			return
		}
		approved := req.Action == "approve"
		op = func(ctx context.Context, id int64) error {
			if _, err := h.queries.GetUserByID(ctx, id); err != nil {
				return err
			}
			return h.queries.SetUserApproved(ctx, id, approved)
		}
	case "delete":
		if actor != nil && !actor.Can(func(p model.Permissions) bool { return p.DeleteUsers }) {
			WriteError(w, http.StatusForbidden, "permission denied")
			return
		}
		op = func(ctx context.Context, id int64) error {
			if id == selfID {
				return fmt.Errorf("cannot delete own account")
			}
			return h.deleteUserByID(ctx, id)
		}
	default:
		WriteBadRequest(w, "unknown action "+strconv.Quote(req.Action))
		return
	}

	result := service.RunBatch(r.Context(), req.IDs, op)
	h.audit(r, model.EventCategoryUser, "bulk user "+req.Action,
		fmt.Sprintf(`{"requested":"%d","succeeded":"%d"}`, len(req.IDs), len(result.Succeeded)))
	WriteJSON(w, http.StatusOK, result)
}
