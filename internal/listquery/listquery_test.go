// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listquery

import (
	"reflect"
	"testing"
	"time"
)

type listing struct {
	ID       int64
	Title    string
	Area     string
	Price    float64
	Active   bool
	Approved bool
	Created  time.Time
}

func listingSchema() Schema[listing] {
	return Schema[listing]{
		SearchFields: []func(listing) string{
			func(l listing) string { return l.Title },
			func(l listing) string { return l.Area },
		},
		Filters: map[string]func(listing, string) bool{
			"status": func(l listing, v string) bool {
				switch v {
				case "active":
					return l.Active && l.Approved
				case "inactive":
					return !l.Active
				case "pending":
					return l.Active && !l.Approved
				default:
					return false
				}
			},
			"area": func(l listing, v string) bool { return l.Area == v },
		},
		SortKeys: map[string]SortKey[listing]{
			"title":   {String: func(l listing) string { return l.Title }},
			"price":   {Number: func(l listing) float64 { return l.Price }},
			"created": {Time: func(l listing) time.Time { return l.Created }},
		},
		DefaultSort: "created",
	}
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func sampleListings() []listing {
	return []listing{
		{ID: 1, Title: "City view near Marina", Area: "Business Bay", Price: 650, Active: true, Approved: true, Created: day(5)},
		{ID: 2, Title: "Studio", Area: "Dubai Marina", Price: 380, Active: true, Approved: true, Created: day(3)},
		{ID: 3, Title: "Palm villa", Area: "Palm Jumeirah", Price: 4200, Active: false, Approved: true, Created: day(8)},
		{ID: 4, Title: "Downtown loft", Area: "Downtown", Price: 900, Active: true, Approved: false, Created: day(1)},
		{ID: 5, Title: "Creek apartment", Area: "Dubai Creek", Price: 650, Active: true, Approved: true, Created: day(5)},
	}
}

func ids(items []listing) []int64 {
	out := make([]int64, len(items))
	for i, l := range items {
		out[i] = l.ID
	}
	return out
}

func TestFilterEmptySearchIsIdentity(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	got := Filter(schema, items, "", nil)
	if !reflect.DeepEqual(ids(got), ids(items)) {
		t.Errorf("empty search changed the collection: %v", ids(got))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	once := Filter(schema, items, "marina", nil)
	twice := Filter(schema, once, "marina", nil)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("filter not idempotent: %v then %v", ids(once), ids(twice))
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	// "Marina" matches one title and one area; either field sufficing.
	got := Filter(schema, items, "Marina", nil)
	if want := []int64{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("search Marina = %v, want %v", ids(got), want)
	}

	got = Filter(schema, items, "mArInA", nil)
	if want := []int64{1, 2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("mixed-case search = %v, want %v", ids(got), want)
	}
}

func TestStatusFilterActive(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	// 3 of 5 are active and approved; relative input order preserved.
	got := Filter(schema, items, "", map[string]string{"status": "active"})
	if want := []int64{1, 2, 5}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("status=active = %v, want %v", ids(got), want)
	}
}

func TestFilterAllIsNoOp(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	got := Filter(schema, items, "", map[string]string{"status": FilterAll, "area": ""})
	if len(got) != len(items) {
		t.Errorf("filter value all/empty removed items: %d of %d", len(got), len(items))
	}
}

func TestFiltersCompose(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	got := Filter(schema, items, "", map[string]string{
		"status": "active",
		"area":   "Dubai Marina",
	})
	if want := []int64{2}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("composed filters = %v, want %v", ids(got), want)
	}
}

func TestSortOrderReversalIsExact(t *testing.T) {
	schema := listingSchema()

	asc := sampleListings()
	Sort(schema, asc, "title", Asc)
	desc := sampleListings()
	Sort(schema, desc, "title", Desc)

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending order is not the exact reverse: asc=%v desc=%v", ids(asc), ids(desc))
		}
	}
}

func TestSortIsStableOnTies(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	// IDs 1 and 5 tie on price 650 and on created day(5); input order must hold.
	Sort(schema, items, "price", Asc)
	var tied []int64
	for _, l := range items {
		if l.Price == 650 {
			tied = append(tied, l.ID)
		}
	}
	if want := []int64{1, 5}; !reflect.DeepEqual(tied, want) {
		t.Errorf("tied items reordered: %v, want %v", tied, want)
	}
}

func TestSortByTimeAndNumber(t *testing.T) {
	schema := listingSchema()

	items := sampleListings()
	Sort(schema, items, "created", Asc)
	if got, want := ids(items), []int64{4, 2, 1, 5, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("sort by created = %v, want %v", got, want)
	}

	items = sampleListings()
	Sort(schema, items, "price", Desc)
	if items[0].ID != 3 {
		t.Errorf("most expensive first, got ID %d", items[0].ID)
	}
}

func TestSortUnknownFieldFallsBackToDefault(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()
	Sort(schema, items, "bogus", Asc)
	if got, want := ids(items), []int64{4, 2, 1, 5, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("fallback sort = %v, want %v", got, want)
	}
}

func TestPaginationCoversWholeList(t *testing.T) {
	items := sampleListings()
	perPage := 2

	var joined []int64
	for page := 1; ; page++ {
		res := Paginate(items, page, perPage)
		if len(res.Items) == 0 {
			break
		}
		joined = append(joined, ids(res.Items)...)
	}
	if !reflect.DeepEqual(joined, ids(items)) {
		t.Errorf("concatenated pages = %v, want %v", joined, ids(items))
	}
}

func TestPaginationOutOfRangeIsEmpty(t *testing.T) {
	items := sampleListings()

	res := Paginate(items, 99, 2)
	if len(res.Items) != 0 {
		t.Errorf("out-of-range page returned %d items", len(res.Items))
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
	if res.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", res.TotalCount)
	}
}

func TestPaginateEmptyCollection(t *testing.T) {
	res := Paginate([]listing{}, 1, 10)
	if len(res.Items) != 0 || res.TotalPages != 1 || res.TotalCount != 0 {
		t.Errorf("empty collection: %+v", res)
	}
}

func TestApplyPipeline(t *testing.T) {
	schema := listingSchema()
	items := sampleListings()

	res := Apply(schema, items, Request{
		Filters:   map[string]string{"status": "active"},
		SortField: "price",
		SortOrder: Asc,
		Page:      1,
		PerPage:   2,
	})
	if got, want := ids(res.Items), []int64{2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("page 1 = %v, want %v", got, want)
	}
	if res.TotalCount != 3 || res.TotalPages != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)", res.TotalCount, res.TotalPages)
	}

	// Input slice must not be reordered by Apply.
	if items[0].ID != 1 {
		t.Error("Apply mutated the input slice order")
	}
}
