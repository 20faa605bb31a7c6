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

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orent-go/internal/cache"
	"github.com/olegiv/orent-go/internal/listquery"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/render"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
	"github.com/olegiv/orent-go/internal/util"
)

// propertySchema drives search, filtering and sorting of listing views.
// Search matches title, area and city case-insensitively.
var propertySchema = listquery.Schema[model.Property]{
	SearchFields: []func(model.Property) string{
		func(p model.Property) string { return p.Title },
		func(p model.Property) string { return p.Area },
		func(p model.Property) string { return p.City },
	},
	Filters: map[string]func(model.Property, string) bool{
		"type": func(p model.Property, v string) bool { return p.Type == v },
		"city": func(p model.Property, v string) bool { return strings.EqualFold(p.City, v) },
		"area": func(p model.Property, v string) bool { return strings.EqualFold(p.Area, v) },
		"status": func(p model.Property, v string) bool {
			switch v {
			case "active":
				return p.IsActive
			case "inactive":
				return !p.IsActive
			case "pending":
				return !p.ApprovedByAdmin
			case "featured":
				return p.Featured
			default:
				return false
			}
		},
		"bedrooms": func(p model.Property, v string) bool {
			n, err := strconv.Atoi(v)
			return err == nil && p.Bedrooms == n
		},
		"guests": func(p model.Property, v string) bool {
			n, err := strconv.Atoi(v)
			return err == nil && p.MaxGuests >= n
		},
	},
	SortKeys: map[string]listquery.SortKey[model.Property]{
		"title":   {String: func(p model.Property) string { return p.Title }},
		"price":   {Number: func(p model.Property) float64 { return p.NightlyPrice }},
		"rating":  {Number: func(p model.Property) float64 { return p.Rating }},
		"created": {Time: func(p model.Property) time.Time { return p.CreatedAt }},
	},
	DefaultSort: "created",
}

// ListProperties handles GET /api/properties. Anonymous callers see only
// visible listings; back-office users see everything when all=1 is set.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	wantAll := r.URL.Query().Get("all") == "1" && user != nil &&
		(user.Role == model.RoleAdmin || user.Role == model.RoleSubAdmin)

	var (
		items []model.Property
		err   error
	)
	if wantAll {
		items, err = h.queries.ListProperties(r.Context())
	} else {
		// The visible set is served from the refreshable collection, with
		// the shared cache consulted before the database is hit.
		var ok bool
		items, _, ok = h.listings.Items()
		if !ok {
			var cached *[]model.Property
			cached, err = h.visibleListings().GetOrSet(r.Context(), listingsCacheKey,
				func() (*[]model.Property, error) {
					fresh, rerr := h.listings.Refresh(r.Context())
					if rerr != nil {
						return nil, rerr
					}
					return &fresh, nil
				})
			if cached != nil {
				items = *cached
			}
		}
	}
	if err != nil {
		h.logger.Error("listing properties failed", "error", err)
		WriteInternalError(w, "could not load properties")
		return
	}

	req := ParseListRequest(r, "type", "city", "area", "status", "bedrooms", "guests")
	res := listquery.Apply(propertySchema, items, req)
	WriteJSON(w, http.StatusOK, listEnvelope("properties", res))
}

// GetProperty handles GET /api/properties/{slug}. The markdown description
// is returned alongside its sanitized HTML rendering.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	property, err := h.queries.GetPropertyBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("loading property failed", "error", err, "slug", slug)
		WriteInternalError(w, "could not load property")
		return
	}

	user := middleware.GetUser(r)
	backOffice := user != nil && (user.Role == model.RoleAdmin || user.Role == model.RoleSubAdmin)
	if !property.Visible() && !backOffice && (user == nil || user.ID != property.HostID) {
		WriteNotFound(w, "property not found")
		return
	}

	html, err := render.Markdown(property.Description)
	if err != nil {
		h.logger.Error("rendering description failed", "error", err, "slug", slug)
		html = ""
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"property":         property,
		"description_html": html,
	})
}

// CreatePropertyRequest is the body for POST /api/properties.
type CreatePropertyRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Area         string   `json:"area"`
	City         string   `json:"city"`
	Type         string   `json:"type"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	MaxGuests    int      `json:"max_guests"`
	NightlyPrice float64  `json:"nightly_price"`
	Currency     string   `json:"currency"`
	Images       []string `json:"images,omitempty"`
}

// CreateProperty handles POST /api/properties. New listings start active
// but unapproved; they become publicly visible after admin approval.
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user.Role == model.RoleGuest {
		WriteError(w, http.StatusForbidden, "only hosts can create listings")
		return
	}

	var req CreatePropertyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if req.Title == "" {
		WriteBadRequest(w, "title is required")
		return
	}
	if !model.IsValidPropertyType(req.Type) {
		WriteBadRequest(w, "unknown property type "+strconv.Quote(req.Type))
		return
	}
	if req.NightlyPrice <= 0 {
		WriteBadRequest(w, "nightly price must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "AED"
	}

	slug, err := h.uniqueSlug(r, req.Title)
	if err != nil {
		h.logger.Error("slug generation failed", "error", err)
		WriteInternalError(w, "could not create property")
		return
	}

	property, err := h.queries.CreateProperty(r.Context(), store.CreatePropertyParams{
		Slug:         slug,
		Title:        req.Title,
		Description:  req.Description,
		Address:      req.Address,
		Area:         req.Area,
		City:         req.City,
		Type:         req.Type,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		MaxGuests:    req.MaxGuests,
		NightlyPrice: req.NightlyPrice,
		Currency:     req.Currency,
		Images:       req.Images,
		IsActive:     true,
		Approved:     user.Role == model.RoleAdmin,
		HostID:       user.ID,
	})
	if err != nil {
		h.logger.Error("creating property failed", "error", err)
		WriteInternalError(w, "could not create property")
		return
	}

	h.invalidateListings()
	h.audit(r, model.EventCategoryProperty, "property created",
		fmt.Sprintf(`{"property_id":"%d"}`, property.ID))
	WriteJSON(w, http.StatusCreated, map[string]any{"property": property})
}

// uniqueSlug derives a slug from title, suffixing a counter on collision.
func (h *Handler) uniqueSlug(r *http.Request, title string) (string, error) {
	base := util.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		_, err := h.queries.GetPropertyBySlug(r.Context(), slug)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// UpdateProperty handles PATCH /api/admin/properties/{id}.
type UpdatePropertyRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Area         *string   `json:"area,omitempty"`
	City         *string   `json:"city,omitempty"`
	Type         *string   `json:"type,omitempty"`
	Bedrooms     *int      `json:"bedrooms,omitempty"`
	Bathrooms    *int      `json:"bathrooms,omitempty"`
	MaxGuests    *int      `json:"max_guests,omitempty"`
	NightlyPrice *float64  `json:"nightly_price,omitempty"`
	Currency     *string   `json:"currency,omitempty"`
	Images       *[]string `json:"images,omitempty"`
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	property, err := h.queries.GetPropertyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("loading property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not load property")
		return
	}

	var req UpdatePropertyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	params := store.UpdatePropertyParams{
		ID:           property.ID,
		Title:        property.Title,
		Description:  property.Description,
		Address:      property.Address,
		Area:         property.Area,
		City:         property.City,
		Type:         property.Type,
		Bedrooms:     property.Bedrooms,
		Bathrooms:    property.Bathrooms,
		MaxGuests:    property.MaxGuests,
		NightlyPrice: property.NightlyPrice,
		Currency:     property.Currency,
		Images:       property.Images,
	}
	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Address != nil {
		params.Address = *req.Address
	}
	if req.Area != nil {
		params.Area = *req.Area
	}
	if req.City != nil {
		params.City = *req.City
	}
	if req.Type != nil {
		if !model.IsValidPropertyType(*req.Type) {
			WriteBadRequest(w, "unknown property type "+strconv.Quote(*req.Type))
			return
		}
		params.Type = *req.Type
	}
	if req.Bedrooms != nil {
		params.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		params.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		params.MaxGuests = *req.MaxGuests
	}
	if req.NightlyPrice != nil {
		if *req.NightlyPrice <= 0 {
			WriteBadRequest(w, "nightly price must be positive")
			return
		}
		params.NightlyPrice = *req.NightlyPrice
	}
	if req.Currency != nil {
		params.Currency = *req.Currency
	}
	if req.Images != nil {
		params.Images = *req.Images
	}

	if err := h.queries.UpdateProperty(r.Context(), params); err != nil {
		h.logger.Error("updating property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not update property")
		return
	}

	updated, err := h.queries.GetPropertyByID(r.Context(), id)
	if err != nil {
		h.logger.Error("reloading property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not load property")
		return
	}

	h.invalidateListings()
	h.audit(r, model.EventCategoryProperty, "property updated",
		fmt.Sprintf(`{"property_id":"%d"}`, id))
	WriteJSON(w, http.StatusOK, map[string]any{"property": updated})
}

// DeleteProperty handles DELETE /api/admin/properties/{id}.
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.deletePropertyByID(r, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("deleting property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not delete property")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "property deleted"})
}

func (h *Handler) deletePropertyByID(r *http.Request, id int64) error {
	if _, err := h.queries.GetPropertyByID(r.Context(), id); err != nil {
		return err
	}
	if err := h.queries.DeleteProperty(r.Context(), id); err != nil {
		return err
	}
	h.invalidateListings()
	h.audit(r, model.EventCategoryProperty, "property deleted",
		fmt.Sprintf(`{"property_id":"%d"}`, id))
	return nil
}

// TogglePropertyFlag handles POST /api/admin/properties/{id}/toggle/{flag}
// for the active and featured switches.
func (h *Handler) TogglePropertyFlag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	flag := chi.URLParam(r, "flag")
	if flag != "active" && flag != "featured" {
		WriteBadRequest(w, "unknown flag "+strconv.Quote(flag))
		return
	}

	property, err := h.queries.GetPropertyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("loading property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not load property")
		return
	}

	value := !property.IsActive
	if flag == "featured" {
		value = !property.Featured
	}
	if err := h.queries.SetPropertyFlag(r.Context(), id, flag, value); err != nil {
		h.logger.Error("toggling property flag failed", "error", err, "property_id", id, "flag", flag)
		WriteInternalError(w, "could not update property")
		return
	}

	h.invalidateListings()
	h.audit(r, model.EventCategoryProperty, "property "+flag+" toggled",
		fmt.Sprintf(`{"property_id":"%d","value":"%t"}`, id, value))
	WriteJSON(w, http.StatusOK, map[string]any{"id": id, "flag": flag, "value": value})
}

// ApproveProperty handles POST /api/admin/properties/{id}/approve.
func (h *Handler) ApproveProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if err := h.approvePropertyByID(r, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "property not found")
			return
		}
		h.logger.Error("approving property failed", "error", err, "property_id", id)
		WriteInternalError(w, "could not approve property")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "property approved"})
}

func (h *Handler) approvePropertyByID(r *http.Request, id int64) error {
	if _, err := h.queries.GetPropertyByID(r.Context(), id); err != nil {
		return err
	}
	if err := h.queries.SetPropertyFlag(r.Context(), id, "approved", true); err != nil {
		return err
	}
	h.invalidateListings()
	h.audit(r, model.EventCategoryProperty, "property approved",
		fmt.Sprintf(`{"property_id":"%d"}`, id))
	return nil
}

// BulkPropertiesRequest is the body for POST /api/admin/properties/bulk.
type BulkPropertiesRequest struct {
	Action string  `json:"action"`
	IDs    []int64 `json:"ids"`
}

// BulkProperties applies one action to many listings. Failures do not
// abort the batch; the result reports both outcomes per ID.
func (h *Handler) BulkProperties(w http.ResponseWriter, r *http.Request) {
	var req BulkPropertiesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	var op func(id int64) error
	switch req.Action {
	case "approve":
		op = func(id int64) error { return h.approvePropertyByID(r, id) }
	case "activate":
		op = func(id int64) error { return h.setPropertyFlag(r, id, "active", true) }
	case "deactivate":
		op = func(id int64) error { return h.setPropertyFlag(r, id, "active", false) }
	case "feature":
		op = func(id int64) error { return h.setPropertyFlag(r, id, "featured", true) }
	case "unfeature":
		op = func(id int64) error { return h.setPropertyFlag(r, id, "featured", false) }
	case "delete":
		op = func(id int64) error { return h.deletePropertyByID(r, id) }
	default:
		WriteBadRequest(w, "unknown action "+strconv.Quote(req.Action))
		return
	}

	result := service.RunBatch(r.Context(), req.IDs, func(_ context.Context, id int64) error {
		return op(id)
	})
	WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) setPropertyFlag(r *http.Request, id int64, flag string, value bool) error {
	if _, err := h.queries.GetPropertyByID(r.Context(), id); err != nil {
		return err
	}
	if err := h.queries.SetPropertyFlag(r.Context(), id, flag, value); err != nil {
		return err
	}
	h.invalidateListings()
	return nil
}

const listingsCacheKey = "listings:visible"

func (h *Handler) visibleListings() *cache.TypedCache[[]model.Property] {
	return cache.NewTypedCache[[]model.Property](h.cache, 5*time.Minute)
}

// invalidateListings drops cached listing data after a mutation.
func (h *Handler) invalidateListings() {
	h.listings.Invalidate()
	if h.cache != nil {
		_ = h.cache.Delete(context.Background(), listingsCacheKey)
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		WriteBadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
