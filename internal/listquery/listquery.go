// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listquery derives display subsets from in-memory collections:
// case-insensitive search, ANDed categorical filters, stable type-aware
// sorting and pagination. Every admin list view shares this one code path
// so the semantics stay deterministic across resources.
package listquery

import (
	"sort"
	"strings"
	"time"
)

// Order is the sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// FilterAll is the filter value that disables a categorical filter.
const FilterAll = "all"

// SortKey extracts a comparable key from an item. Exactly one extractor
// should be set; precedence is String, then Time, then Number.
// String keys compare lower-cased; Time keys compare by epoch millis;
// Number keys report 0 for missing values by convention of the extractor.
type SortKey[T any] struct {
	String func(T) string
	Time   func(T) time.Time
	Number func(T) float64
}

func (k SortKey[T]) compare(a, b T) int {
	switch {
	case k.String != nil:
		return strings.Compare(strings.ToLower(k.String(a)), strings.ToLower(k.String(b)))
	case k.Time != nil:
		am, bm := k.Time(a).UnixMilli(), k.Time(b).UnixMilli()
		switch {
		case am < bm:
			return -1
		case am > bm:
			return 1
		default:
			return 0
		}
	case k.Number != nil:
		an, bn := k.Number(a), k.Number(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// Schema describes how a collection of T is searched, filtered and sorted.
type Schema[T any] struct {
	// SearchFields are the string fields candidate for substring search.
	SearchFields []func(T) string
	// Filters maps a filter name to an exact-match predicate over one value.
	Filters map[string]func(item T, value string) bool
	// SortKeys maps a sort field name to its key extractor.
	SortKeys map[string]SortKey[T]
	// DefaultSort is used when the request names no (or an unknown) field.
	DefaultSort string
}

// Request holds the query parameters for one list view.
type Request struct {
	Search    string
	Filters   map[string]string
	SortField string
	SortOrder Order
	Page      int
	PerPage   int
}

// Result is one page of a filtered, sorted collection.
type Result[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	PerPage    int
	TotalPages int
}

// Apply runs the full pipeline: filter, sort, paginate. It is a pure
// function of its inputs; the input slice is never mutated.
func Apply[T any](schema Schema[T], items []T, req Request) Result[T] {
	filtered := Filter(schema, items, req.Search, req.Filters)
	Sort(schema, filtered, req.SortField, req.SortOrder)
	return Paginate(filtered, req.Page, req.PerPage)
}

// Filter returns the items matching the search text and all categorical
// filters. An empty search matches everything; a filter value of "all"
// (or empty) is a no-op. The result is a fresh slice preserving input order.
func Filter[T any](schema Schema[T], items []T, search string, filters map[string]string) []T {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(schema, item, needle) {
			continue
		}
		if !matchesFilters(schema, item, filters) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T any](schema Schema[T], item T, needle string) bool {
	for _, field := range schema.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](schema Schema[T], item T, filters map[string]string) bool {
	for name, value := range filters {
		if value == "" || value == FilterAll {
			continue
		}
		predicate, ok := schema.Filters[name]
		if !ok {
			// Unknown filter names are rejected at parse time by callers;
			// treat a stray one as non-matching rather than silently passing.
			return false
		}
		if !predicate(item, value) {
			return false
		}
	}
	return true
}

// Sort orders items in place by the named sort key. Unknown fields fall
// back to the schema default. The sort is stable: ties keep input order.
func Sort[T any](schema Schema[T], items []T, field string, order Order) {
	key, ok := schema.SortKeys[field]
	if !ok {
		key, ok = schema.SortKeys[schema.DefaultSort]
		if !ok {
			return
		}
	}

	sign := 1
	if order == Desc {
		sign = -1
	}

	sort.SliceStable(items, func(i, j int) bool {
		return sign*key.compare(items[i], items[j]) < 0
	})
}

// Paginate slices one page out of the collection. Page numbers are
// 1-based; out-of-range pages yield an empty slice, never an error.
func Paginate[T any](items []T, page, perPage int) Result[T] {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Items:      items[start:end],
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
