// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/orent-go/internal/listquery"
)

// Pagination defaults and cap.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ParsePageParam returns the "page" query parameter, defaulting to 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePerPageParam returns the "limit" query parameter clamped to
// [1, MaxPerPage], defaulting to DefaultPerPage.
func ParsePerPageParam(r *http.Request) int {
	perPage, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || perPage < 1 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// ParseListRequest assembles a listquery.Request from the standard query
// parameters: search, the given filter names, sort, order, page, limit.
func ParseListRequest(r *http.Request, filterNames ...string) listquery.Request {
	q := r.URL.Query()

	filters := make(map[string]string)
	for _, name := range filterNames {
		if v := q.Get(name); v != "" {
			filters[name] = v
		}
	}

	order := listquery.Desc
	if strings.EqualFold(q.Get("order"), "asc") {
		order = listquery.Asc
	}

	return listquery.Request{
		Search:    q.Get("search"),
		Filters:   filters,
		SortField: q.Get("sort"),
		SortOrder: order,
		Page:      ParsePageParam(r),
		PerPage:   ParsePerPageParam(r),
	}
}

// listEnvelope builds the standard list response body: the named
// collection plus pagination metadata.
func listEnvelope[T any](name string, res listquery.Result[T]) map[string]any {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		name:         items,
		"page":       res.Page,
		"limit":      res.PerPage,
		"totalCount": res.TotalCount,
		"totalPages": res.TotalPages,
	}
}
