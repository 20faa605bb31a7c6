// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orent-go/internal/cache"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
)

// Handler holds the shared dependencies for all API handlers.
type Handler struct {
	db           *sql.DB
	queries      *store.Queries
	sessions     *scs.SessionManager
	reservations *service.Reservations
	listings     *service.Collection[model.Property]
	cache        cache.Cacher
	logger       *slog.Logger
	protection   *middleware.LoginProtection
	searches     *searchStore
}

// New creates the API handler.
func New(
	db *sql.DB,
	sessions *scs.SessionManager,
	reservations *service.Reservations,
	listings *service.Collection[model.Property],
	c cache.Cacher,
	logger *slog.Logger,
	protection *middleware.LoginProtection,
) *Handler {
	return &Handler{
		db:           db,
		queries:      store.New(db),
		sessions:     sessions,
		reservations: reservations,
		listings:     listings,
		cache:        c,
		logger:       logger,
		protection:   protection,
		searches:     newSearchStore(),
	}
}

// Routes mounts every API route on r. Session and user loading middleware
// are expected on the parent router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Get("/properties", h.ListProperties)
		r.Get("/properties/{slug}", h.GetProperty)
		r.Post("/reservations", h.CreateReservation)
		r.Post("/contact", h.CreateMessage)

		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)

		r.Route("/search", func(r chi.Router) {
			r.Post("/start", h.StartSearch)
			r.Post("/{id}/next", h.SearchNext)
			r.Post("/{id}/back", h.SearchBack)
			r.Delete("/{id}", h.CancelSearch)
		})

		// Hosts create listings; admins approve them.
		r.With(middleware.RequireAuth).Post("/properties", h.CreateProperty)

		// Back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireBackOffice)

			r.Get("/stats", h.AdminStats)

			r.Route("/properties", func(r chi.Router) {
				r.Use(middleware.RequirePermission(func(p model.Permissions) bool {
					return p.ManageListings
				}))
				r.Patch("/{id}", h.UpdateProperty)
				r.Delete("/{id}", h.DeleteProperty)
				r.Post("/{id}/toggle/{flag}", h.TogglePropertyFlag)
				r.Post("/{id}/approve", h.ApproveProperty)
				r.Post("/bulk", h.BulkProperties)
			})

			r.Route("/reservations", func(r chi.Router) {
				r.Use(middleware.RequirePermission(func(p model.Permissions) bool {
					return p.ViewBookings
				}))
				r.Get("/", h.ListReservations)
				r.Get("/export", h.ExportReservations)
				r.Get("/{id}", h.GetReservation)
				r.Patch("/{id}", h.UpdateReservation)
				r.Post("/{id}/status", h.ChangeReservationStatus)
				r.Get("/{id}/history", h.ReservationHistory)
				r.Post("/bulk", h.BulkReservations)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", h.ListMessages)
				r.Patch("/{id}", h.UpdateMessage)
				r.Post("/bulk", h.BulkMessages)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.With(middleware.RequirePermission(func(p model.Permissions) bool {
					return p.ApproveUsers
				})).Patch("/{id}", h.UpdateUser)
				r.With(middleware.RequirePermission(func(p model.Permissions) bool {
					return p.DeleteUsers
				})).Delete("/{id}", h.DeleteUser)
				r.Post("/bulk", h.BulkUsers)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.RequirePermission(func(p model.Permissions) bool {
					return p.ManageSettings
				}))
				r.Get("/", h.GetSettings)
				r.Put("/", h.PutSettings)
			})
		})
	})
}

// audit records an admin mutation in the event log. Failures are logged
// and never surfaced to the client.
func (h *Handler) audit(r *http.Request, category, message string, metadata string) {
	userID := sql.NullInt64{}
	if id := middleware.GetUserID(r); id != 0 {
		userID = sql.NullInt64{Int64: id, Valid: true}
	}
	if metadata == "" {
		metadata = "{}"
	}
	_, err := h.queries.CreateEvent(r.Context(), model.Event{
		Level:    model.EventLevelInfo,
		Category: category,
		Message:  message,
		UserID:   userID,
		Metadata: metadata,
	})
	if err != nil {
		h.logger.Error("audit event write failed", "error", err, "message", message)
	}
}
