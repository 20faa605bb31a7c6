// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/orent-go/internal/wizard"
)

// searchTTL bounds how long an abandoned wizard survives.
const searchTTL = 30 * time.Minute

// searchStore keeps in-progress search wizards keyed by opaque ID.
type searchStore struct {
	mu      sync.Mutex
	entries map[string]*searchEntry
}

type searchEntry struct {
	wizard    *wizard.Wizard
	updatedAt time.Time
}

func newSearchStore() *searchStore {
	s := &searchStore{entries: make(map[string]*searchEntry)}
	go s.sweep()
	return s
}

func (s *searchStore) create() (string, *wizard.Wizard) {
	id := uuid.NewString()
	w := wizard.New()
	s.mu.Lock()
	s.entries[id] = &searchEntry{wizard: w, updatedAt: time.Now()}
	s.mu.Unlock()
	return id, w
}

func (s *searchStore) get(id string) (*wizard.Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	entry.updatedAt = time.Now()
	return entry.wizard, true
}

func (s *searchStore) delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func (s *searchStore) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-searchTTL)
		s.mu.Lock()
		for id, entry := range s.entries {
			if entry.updatedAt.Before(cutoff) {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}

// searchState is the wire representation of a wizard.
type searchState struct {
	ID          string `json:"id"`
	Step        string `json:"step"`
	Area        string `json:"area,omitempty"`
	CheckIn     string `json:"check_in,omitempty"`
	CheckOut    string `json:"check_out,omitempty"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	Focus       string `json:"focus,omitempty"`
	ListingsURL string `json:"listings_url,omitempty"`
}

func stateOf(id string, w *wizard.Wizard) searchState {
	st := searchState{
		ID:       id,
		Step:     string(w.Step),
		Area:     w.Area,
		Adults:   w.Adults,
		Children: w.Children,
	}
	if w.CheckIn != nil {
		st.CheckIn = w.CheckIn.Format(wizard.DateLayout)
	}
	if w.CheckOut != nil {
		st.CheckOut = w.CheckOut.Format(wizard.DateLayout)
	}
	if w.Step == wizard.StepDone {
		if u, err := w.ListingsURL(); err == nil {
			st.ListingsURL = u
		}
	}
	return st
}

// StartSearch handles POST /api/search/start.
func (h *Handler) StartSearch(w http.ResponseWriter, _ *http.Request) {
	id, wiz := h.searches.create()
	WriteJSON(w, http.StatusCreated, stateOf(id, wiz))
}

// SearchNextRequest carries the input for the current step. Only the
// fields belonging to that step are read.
type SearchNextRequest struct {
	Area     string `json:"area,omitempty"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Adults   *int   `json:"adults,omitempty"`
	Children *int   `json:"children,omitempty"`
}

// SearchNext handles POST /api/search/{id}/next. It records the step's
// input and advances; the dates step only advances once both dates are
// set, returning a focus hint instead when check-out still needs picking.
func (h *Handler) SearchNext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wiz, ok := h.searches.get(id)
	if !ok {
		WriteNotFound(w, "search not found")
		return
	}

	var req SearchNextRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	switch wiz.Step {
	case wizard.StepDestination:
		if err := wiz.SetDestination(req.Area); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}

	case wizard.StepDates:
		var focus string
		if req.CheckIn != "" {
			day, err := time.Parse(wizard.DateLayout, req.CheckIn)
			if err != nil {
				WriteBadRequest(w, "invalid check_in date")
				return
			}
			if focus, err = wiz.SetCheckIn(day); err != nil {
				WriteBadRequest(w, err.Error())
				return
			}
		}
		if req.CheckOut != "" {
			day, err := time.Parse(wizard.DateLayout, req.CheckOut)
			if err != nil {
				WriteBadRequest(w, "invalid check_out date")
				return
			}
			if err := wiz.SetCheckOut(day); err != nil {
				WriteBadRequest(w, err.Error())
				return
			}
			focus = ""
		}
		// A pending focus hint means check-out still needs the user's
		// attention, even if it was auto-advanced.
		if wiz.CheckIn == nil || wiz.CheckOut == nil || focus != "" {
			st := stateOf(id, wiz)
			st.Focus = focus
			WriteJSON(w, http.StatusOK, st)
			return
		}
		if err := wiz.Next(); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}

	case wizard.StepGuests:
		adults, children := wiz.Adults, wiz.Children
		if req.Adults != nil {
			adults = *req.Adults
		}
		if req.Children != nil {
			children = *req.Children
		}
		if err := wiz.SetGuests(adults, children); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		if err := wiz.Next(); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}

	default:
		WriteBadRequest(w, "search already complete")
		return
	}

	WriteJSON(w, http.StatusOK, stateOf(id, wiz))
}

// SearchBack handles POST /api/search/{id}/back. Earlier input survives.
func (h *Handler) SearchBack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wiz, ok := h.searches.get(id)
	if !ok {
		WriteNotFound(w, "search not found")
		return
	}
	wiz.Back()
	WriteJSON(w, http.StatusOK, stateOf(id, wiz))
}

// CancelSearch handles DELETE /api/search/{id}. All in-progress state is
// discarded.
func (h *Handler) CancelSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.searches.get(id); !ok {
		WriteNotFound(w, "search not found")
		return
	}
	h.searches.delete(id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "search cancelled"})
}
