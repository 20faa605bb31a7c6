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
	"time"

	"github.com/olegiv/orent-go/internal/listquery"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
)

var messageSchema = listquery.Schema[model.ContactMessage]{
	SearchFields: []func(model.ContactMessage) string{
		func(m model.ContactMessage) string { return m.Name },
		func(m model.ContactMessage) string { return m.Email },
		func(m model.ContactMessage) string { return m.Subject },
	},
	Filters: map[string]func(model.ContactMessage, string) bool{
		"status": func(m model.ContactMessage, v string) bool { return m.Status == v },
	},
	SortKeys: map[string]listquery.SortKey[model.ContactMessage]{
		"name":    {String: func(m model.ContactMessage) string { return m.Name }},
		"status":  {String: func(m model.ContactMessage) string { return m.Status }},
		"created": {Time: func(m model.ContactMessage) time.Time { return m.CreatedAt }},
	},
	DefaultSort: "created",
}

// CreateMessageRequest is the body for the public POST /api/contact.
type CreateMessageRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PropertyID *int64 `json:"property_id,omitempty"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// CreateMessage handles POST /api/contact.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if req.Name == "" || req.Email == "" || req.Body == "" {
		WriteBadRequest(w, "name, email and body are required")
		return
	}

	propertyID := sql.NullInt64{}
	if req.PropertyID != nil {
		if _, err := h.queries.GetPropertyByID(r.Context(), *req.PropertyID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "property not found")
				return
			}
			h.logger.Error("loading property failed", "error", err, "property_id", *req.PropertyID)
			WriteInternalError(w, "could not create message")
			return
		}
		propertyID = sql.NullInt64{Int64: *req.PropertyID, Valid: true}
	}

	message, err := h.queries.CreateMessage(r.Context(), store.CreateMessageParams{
		Name:       req.Name,
		Email:      req.Email,
		PropertyID: propertyID,
		Subject:    req.Subject,
		Body:       req.Body,
	})
	if err != nil {
		h.logger.Error("creating message failed", "error", err)
		WriteInternalError(w, "could not create message")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"message_entry": message})
}

// ListMessages handles GET /api/admin/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListMessages(r.Context())
	if err != nil {
		h.logger.Error("listing messages failed", "error", err)
		WriteInternalError(w, "could not load messages")
		return
	}
	req := ParseListRequest(r, "status")
	res := listquery.Apply(messageSchema, items, req)
	WriteJSON(w, http.StatusOK, listEnvelope("messages", res))
}

// UpdateMessageRequest is the body for PATCH /api/admin/messages/{id}.
type UpdateMessageRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateMessageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if !model.IsValidMessageStatus(req.Status) {
		WriteBadRequest(w, "unknown message status "+strconv.Quote(req.Status))
		return
	}
	if err := h.setMessageStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "message not found")
			return
		}
		h.logger.Error("updating message failed", "error", err, "message_id", id)
		WriteInternalError(w, "could not update message")
		return
	}

	message, err := h.queries.GetMessageByID(r.Context(), id)
	if err != nil {
		h.logger.Error("reloading message failed", "error", err, "message_id", id)
		WriteInternalError(w, "could not load message")
		return
	}
	h.audit(r, model.EventCategoryMessage, "message status changed",
		fmt.Sprintf(`{"message_id":"%d","status":"%s"}`, id, req.Status))
	WriteJSON(w, http.StatusOK, map[string]any{"message_entry": message})
}

func (h *Handler) setMessageStatus(ctx context.Context, id int64, status string) error {
	if !model.IsValidMessageStatus(status) {
		return fmt.Errorf("unknown message status %q", status)
	}
	if _, err := h.queries.GetMessageByID(ctx, id); err != nil {
		return err
	}
	return h.queries.UpdateMessageStatus(ctx, id, status)
}

// BulkMessagesRequest is the body for POST /api/admin/messages/bulk.
type BulkMessagesRequest struct {
	Action string  `json:"action"`
	IDs    []int64 `json:"ids"`
	Status string  `json:"status,omitempty"`
}

func (h *Handler) BulkMessages(w http.ResponseWriter, r *http.Request) {
	var req BulkMessagesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	var op func(ctx context.Context, id int64) error
	switch req.Action {
	case "status":
		if !model.IsValidMessageStatus(req.Status) {
			WriteBadRequest(w, "unknown message status "+strconv.Quote(req.Status))
			return
		}
		op = func(ctx context.Context, id int64) error {
			return h.setMessageStatus(ctx, id, req.Status)
		}
	case "delete":
		op = func(ctx context.Context, id int64) error {
			if _, err := h.queries.GetMessageByID(ctx, id); err != nil {
				return err
			}
			return h.queries.DeleteMessage(ctx, id)
		}
	default:
		WriteBadRequest(w, "unknown action "+strconv.Quote(req.Action))
		return
	}

	result := service.RunBatch(r.Context(), req.IDs, op)
	h.audit(r, model.EventCategoryMessage, "bulk message "+req.Action,
		fmt.Sprintf(`{"requested":"%d","succeeded":"%d"}`, len(req.IDs), len(result.Succeeded)))
	WriteJSON(w, http.StatusOK, result)
}
