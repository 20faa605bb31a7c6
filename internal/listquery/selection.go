// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listquery

import "sort"

// Selection tracks a set of selected entity IDs across paginated list
// views. Selection made on one page survives navigating to another; bulk
// actions consume the full set regardless of which page is visible.
type Selection struct {
	ids map[int64]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int64]struct{})}
}

// ToggleOne flips membership of a single ID.
func (s *Selection) ToggleOne(id int64) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// ToggleAll operates on the currently visible page: if every ID on the
// page is selected, the page's IDs are deselected; otherwise every ID on
// the page becomes selected. IDs from other pages are untouched either way.
func (s *Selection) ToggleAll(pageIDs []int64) {
	selectedOnPage := 0
	for _, id := range pageIDs {
		if _, ok := s.ids[id]; ok {
			selectedOnPage++
		}
	}

	if len(pageIDs) > 0 && selectedOnPage == len(pageIDs) {
		for _, id := range pageIDs {
			delete(s.ids, id)
		}
		return
	}
	for _, id := range pageIDs {
		s.ids[id] = struct{}{}
	}
}

// Has reports whether the ID is selected.
func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected IDs.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns all selected IDs in ascending order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}
