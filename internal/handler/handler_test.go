// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/orent-go/internal/auth"
	"github.com/olegiv/orent-go/internal/cache"
	"github.com/olegiv/orent-go/internal/middleware"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
	"github.com/olegiv/orent-go/internal/store"
	"github.com/olegiv/orent-go/internal/testutil"
)

// testUserHeader lets tests act as a user without a session round-trip.
const testUserHeader = "X-Test-User"

type testEnv struct {
	t       *testing.T
	db      *sql.DB
	queries *store.Queries
	router  http.Handler
	mails   *stubMailer
}

type stubMailer struct {
	sent []string
}

func (m *stubMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	queries := store.New(db)
	sessions := scs.New()
	mails := &stubMailer{}
	listings := service.NewCollection(func(ctx context.Context) ([]model.Property, error) {
		return queries.ListVisibleProperties(ctx)
	})
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	h := New(db, sessions, service.NewReservations(db, mails), listings, c,
		testutil.TestLogger(), nil)

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if idStr := req.Header.Get(testUserHeader); idStr != "" {
				id, err := strconv.ParseInt(idStr, 10, 64)
				if err == nil {
					if user, uerr := queries.GetUserByID(req.Context(), id); uerr == nil {
						ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, user)
						req = req.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Use(middleware.LoadUser(sessions, db))
	h.Routes(r)

	return &testEnv{t: t, db: db, queries: queries, router: r, mails: mails}
}

// do issues a request, optionally as the given user, with a JSON body.
func (e *testEnv) do(method, path string, asUser int64, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(asUser, 10))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *testEnv) createAdmin() model.User {
	e.t.Helper()
	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		e.t.Fatal(err)
	}
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        "admin@test.local",
		PasswordHash: hash,
		Name:         "Test Admin",
		Role:         model.RoleAdmin,
		Approved:     true,
	})
	if err != nil {
		e.t.Fatal(err)
	}
	return user
}

func (e *testEnv) createSubAdmin(perms model.Permissions) model.User {
	e.t.Helper()
	hash, err := auth.HashPassword("sub admin pass phrase")
	if err != nil {
		e.t.Fatal(err)
	}
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        fmt.Sprintf("sub%d@test.local", time.Now().UnixNano()),
		PasswordHash: hash,
		Name:         "Sub Admin",
		Role:         model.RoleSubAdmin,
		Approved:     true,
		Permissions:  perms,
	})
	if err != nil {
		e.t.Fatal(err)
	}
	return user
}

func (e *testEnv) createVisibleProperty(hostID int64, title, slug string) model.Property {
	e.t.Helper()
	p := testutil.CreateProperty(e.t, e.db, hostID, title, slug)
	return p
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/health", 0, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestPublicListingsHideUnapproved(t *testing.T) {
	env := newTestEnv(t)
	host := testutil.CreateHost(t, env.db)
	env.createVisibleProperty(host.ID, "Marina View Apartment", "marina-view-apartment")

	// A second listing that is active but not yet approved.
	_, err := env.queries.CreateProperty(context.Background(), store.CreatePropertyParams{
		Slug: "unapproved", Title: "Unapproved", Type: model.PropertyTypeStudio,
		NightlyPrice: 100, Currency: "AED", IsActive: true, Approved: false, HostID: host.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(http.MethodGet, "/api/properties", 0, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	items := body["properties"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d public properties, want 1", len(items))
	}
	if body["totalCount"].(float64) != 1 {
		t.Errorf("totalCount = %v, want 1", body["totalCount"])
	}

	// Back office sees everything with all=1.
	admin := env.createAdmin()
	rec = env.do(http.MethodGet, "/api/properties?all=1", admin.ID, nil)
	body = decodeBody(t, rec)
	if got := len(body["properties"].([]any)); got != 2 {
		t.Errorf("admin sees %d properties, want 2", got)
	}
}

func TestPropertyDetailRendersMarkdown(t *testing.T) {
	env := newTestEnv(t)
	host := testutil.CreateHost(t, env.db)
	p, err := env.queries.CreateProperty(context.Background(), store.CreatePropertyParams{
		Slug: "nice-flat", Title: "Nice Flat", Description: "A **bright** flat.",
		Type: model.PropertyTypeApartment, NightlyPrice: 400, Currency: "AED",
		IsActive: true, Approved: true, HostID: host.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(http.MethodGet, "/api/properties/"+p.Slug, 0, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	html := body["description_html"].(string)
	if html == "" || !bytes.Contains([]byte(html), []byte("<strong>bright</strong>")) {
		t.Errorf("description_html = %q", html)
	}

	rec = env.do(http.MethodGet, "/api/properties/no-such-slug", 0, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "property not found" {
		t.Errorf("error message = %v", msg)
	}
}

func TestPropertyToggleAndApprove(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()
	host := testutil.CreateHost(t, env.db)
	p, err := env.queries.CreateProperty(context.Background(), store.CreatePropertyParams{
		Slug: "pending-villa", Title: "Pending Villa", Type: model.PropertyTypeVilla,
		NightlyPrice: 900, Currency: "AED", IsActive: true, Approved: false, HostID: host.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	idPath := fmt.Sprintf("/api/admin/properties/%d", p.ID)

	rec := env.do(http.MethodPost, idPath+"/approve", admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", rec.Code, rec.Body.String())
	}
	got, err := env.queries.GetPropertyByID(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ApprovedByAdmin {
		t.Error("property not approved after approve endpoint")
	}

	rec = env.do(http.MethodPost, idPath+"/toggle/featured", admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	got, _ = env.queries.GetPropertyByID(context.Background(), p.ID)
	if !got.Featured {
		t.Error("featured flag not set after toggle")
	}

	rec = env.do(http.MethodPost, idPath+"/toggle/approved", admin.ID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("toggle approved status = %d, want 400", rec.Code)
	}

	// Hosts cannot reach admin property routes.
	rec = env.do(http.MethodPost, idPath+"/approve", host.ID, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("host approve status = %d, want 403", rec.Code)
	}
}

func TestBulkPropertiesContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()
	host := testutil.CreateHost(t, env.db)
	p1 := env.createVisibleProperty(host.ID, "One", "one")
	p2 := env.createVisibleProperty(host.ID, "Two", "two")

	// The middle ID does not exist.
	rec := env.do(http.MethodPost, "/api/admin/properties/bulk", admin.ID, BulkPropertiesRequest{
		Action: "feature",
		IDs:    []int64{p1.ID, 99999, p2.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk status = %d: %s", rec.Code, rec.Body.String())
	}
	var result service.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Succeeded) != 2 {
		t.Errorf("succeeded = %v, want both real IDs", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != 99999 {
		t.Errorf("failed = %v, want just 99999", result.Failed)
	}
}

func TestReservationBookingFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()
	host := testutil.CreateHost(t, env.db)
	p := env.createVisibleProperty(host.ID, "Beach House", "beach-house")

	rec := env.do(http.MethodPost, "/api/reservations", 0, CreateReservationRequest{
		PropertyID: p.ID,
		GuestName:  "Dana Guest",
		GuestEmail: "dana@example.com",
		CheckIn:    "2026-10-01",
		CheckOut:   "2026-10-04",
		Guests:     2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	res := body["reservation"].(map[string]any)
	if res["status"] != model.ReservationPending {
		t.Errorf("new reservation status = %v, want pending", res["status"])
	}
	if res["confirmation_code"] == "" {
		t.Error("missing confirmation code")
	}
	id := int64(res["id"].(float64))

	// Status change with notification.
	rec = env.do(http.MethodPost, fmt.Sprintf("/api/admin/reservations/%d/status", id), admin.ID,
		ChangeStatusRequest{Status: model.ReservationApproved, Note: "looks good", SendEmail: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status change = %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.mails.sent) != 1 || env.mails.sent[0] != "dana@example.com" {
		t.Errorf("mails sent = %v, want one to the guest", env.mails.sent)
	}

	// Exactly one history entry for the change.
	rec = env.do(http.MethodGet, fmt.Sprintf("/api/admin/reservations/%d/history", id), admin.ID, nil)
	history := decodeBody(t, rec)["history"].([]any)
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	entry := history[0].(map[string]any)
	if entry["status"] != model.ReservationApproved || entry["note"] != "looks good" {
		t.Errorf("history entry = %v", entry)
	}

	// Unknown status is a 400 with a verbatim message.
	rec = env.do(http.MethodPost, fmt.Sprintf("/api/admin/reservations/%d/status", id), admin.ID,
		ChangeStatusRequest{Status: "archived"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", rec.Code)
	}
}

func TestReservationValidation(t *testing.T) {
	env := newTestEnv(t)
	host := testutil.CreateHost(t, env.db)
	p := env.createVisibleProperty(host.ID, "Small Studio", "small-studio")

	cases := []struct {
		name string
		req  CreateReservationRequest
	}{
		{"missing guest", CreateReservationRequest{PropertyID: p.ID, CheckIn: "2026-10-01", CheckOut: "2026-10-02", Guests: 1}},
		{"bad dates", CreateReservationRequest{PropertyID: p.ID, GuestName: "A", GuestEmail: "a@b.c", CheckIn: "2026-10-04", CheckOut: "2026-10-01", Guests: 1}},
		{"too many guests", CreateReservationRequest{PropertyID: p.ID, GuestName: "A", GuestEmail: "a@b.c", CheckIn: "2026-10-01", CheckOut: "2026-10-02", Guests: 99}},
	}
	for _, tc := range cases {
		rec := env.do(http.MethodPost, "/api/reservations", 0, tc.req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestReservationListFiltersAndExport(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()
	host := testutil.CreateHost(t, env.db)
	p := env.createVisibleProperty(host.ID, "Filter House", "filter-house")

	r1 := testutil.CreateReservation(t, env.db, p.ID, "CODE-A")
	_ = testutil.CreateReservation(t, env.db, p.ID, "CODE-B")
	if err := env.queries.UpdateReservationStatus(context.Background(), r1.ID, model.ReservationConfirmed); err != nil {
		t.Fatal(err)
	}

	rec := env.do(http.MethodGet, "/api/admin/reservations/?status="+model.ReservationConfirmed, admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if got := len(body["reservations"].([]any)); got != 1 {
		t.Errorf("filtered list length = %d, want 1", got)
	}

	rec = env.do(http.MethodGet, "/api/admin/reservations/export?status="+model.ReservationConfirmed, admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("export content type = %q", ct)
	}
	lines := bytes.Split(bytes.TrimSpace(rec.Body.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("export lines = %d, want header plus one row", len(lines))
	}
	if !bytes.HasPrefix(lines[0], []byte("ID,Property,Guest")) {
		t.Errorf("export header = %s", lines[0])
	}
	if !bytes.Contains(lines[1], []byte(`"Jamie Guest"`)) {
		t.Errorf("export row = %s", lines[1])
	}
	if cd := rec.Header().Get("Content-Disposition"); !bytes.Contains([]byte(cd), []byte("reservations-")) {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestContactMessages(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()

	rec := env.do(http.MethodPost, "/api/contact", 0, CreateMessageRequest{
		Name: "Visitor", Email: "visitor@example.com", Subject: "Question", Body: "Is the pool heated?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("contact status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/admin/messages/?status=new", admin.ID, nil)
	body := decodeBody(t, rec)
	items := body["messages"].([]any)
	if len(items) != 1 {
		t.Fatalf("messages = %d, want 1", len(items))
	}
	id := int64(items[0].(map[string]any)["id"].(float64))

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/messages/%d", id), admin.ID,
		UpdateMessageRequest{Status: model.MessageReplied})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/messages/%d", id), admin.ID,
		UpdateMessageRequest{Status: "spam"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status patch = %d, want 400", rec.Code)
	}
}

func TestUserAdministration(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()

	rec := env.do(http.MethodPost, "/api/admin/users/", admin.ID, CreateUserRequest{
		Email: "newhost@example.com", Password: "a long enough password",
		Name: "New Host", Role: model.RoleHost,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)["user"].(map[string]any)
	id := int64(created["id"].(float64))
	if _, ok := created["password_hash"]; ok {
		t.Error("password hash leaked in response")
	}

	// Duplicate email conflicts.
	rec = env.do(http.MethodPost, "/api/admin/users/", admin.ID, CreateUserRequest{
		Email: "newhost@example.com", Password: "another password", Name: "Dup", Role: model.RoleHost,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email status = %d, want 409", rec.Code)
	}

	// Approve through patch.
	approved := true
	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/users/%d", id), admin.ID,
		UpdateUserRequest{Approved: &approved})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}

	// Self-deletion is rejected.
	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID), admin.ID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self delete status = %d, want 400", rec.Code)
	}

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubAdminPermissionGates(t *testing.T) {
	env := newTestEnv(t)
	sub := env.createSubAdmin(model.Permissions{ViewBookings: true})

	// Granted: reservations list.
	rec := env.do(http.MethodGet, "/api/admin/reservations/", sub.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("granted route status = %d, want 200", rec.Code)
	}

	// Not granted: listings management and settings.
	rec = env.do(http.MethodDelete, "/api/admin/properties/1", sub.ID, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("ungranted properties route status = %d, want 403", rec.Code)
	}
	rec = env.do(http.MethodGet, "/api/admin/settings/", sub.ID, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("ungranted settings route status = %d, want 403", rec.Code)
	}

	// Sub-admins cannot grant permissions even with ApproveUsers.
	sub2 := env.createSubAdmin(model.Permissions{ApproveUsers: true})
	role := model.RoleAdmin
	rec = env.do(http.MethodPatch, fmt.Sprintf("/api/admin/users/%d", sub.ID), sub2.ID,
		UpdateUserRequest{Role: &role})
	if rec.Code != http.StatusForbidden {
		t.Errorf("role escalation status = %d, want 403", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()

	rec := env.do(http.MethodGet, "/api/admin/settings/", admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings status = %d: %s", rec.Code, rec.Body.String())
	}
	var getResp struct {
		Settings model.Settings `json:"settings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
		t.Fatal(err)
	}

	settings := getResp.Settings
	settings.General.SiteName = "oRent Staging"
	settings.Notifications.NotifyEmail = "ops@example.com"

	rec = env.do(http.MethodPut, "/api/admin/settings/", admin.ID, settings)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings status = %d: %s", rec.Code, rec.Body.String())
	}
	var putResp struct {
		Settings model.Settings `json:"settings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &putResp); err != nil {
		t.Fatal(err)
	}
	if putResp.Settings.General.SiteName != "oRent Staging" {
		t.Errorf("site name after save = %q", putResp.Settings.General.SiteName)
	}
	if putResp.Settings.Notifications.NotifyEmail != "ops@example.com" {
		t.Errorf("notify email after save = %q", putResp.Settings.Notifications.NotifyEmail)
	}

	// A save without a site name is rejected wholesale.
	settings.General.SiteName = ""
	rec = env.do(http.MethodPut, "/api/admin/settings/", admin.ID, settings)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty site name status = %d, want 400", rec.Code)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin()

	rec := env.do(http.MethodPost, "/api/auth/login", 0, LoginRequest{
		Email: "admin@test.local", Password: "correct horse battery staple",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeBody(t, rec)["user"].(map[string]any)
	if user["email"] != "admin@test.local" {
		t.Errorf("login response user = %v", user)
	}

	rec = env.do(http.MethodPost, "/api/auth/login", 0, LoginRequest{
		Email: "admin@test.local", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "invalid email or password" {
		t.Errorf("error message = %v", msg)
	}

	// Me without a session is 401.
	rec = env.do(http.MethodGet, "/api/auth/me", 0, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me status = %d, want 401", rec.Code)
	}
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin()
	host := testutil.CreateHost(t, env.db)
	p := env.createVisibleProperty(host.ID, "Stats House", "stats-house")
	testutil.CreateReservation(t, env.db, p.ID, "STATS-1")

	rec := env.do(http.MethodGet, "/api/admin/stats", admin.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	props := body["properties"].(map[string]any)
	if props["total"].(float64) != 1 {
		t.Errorf("properties total = %v, want 1", props["total"])
	}
	reservations := body["reservations"].(map[string]any)
	byStatus := reservations["byStatus"].(map[string]any)
	if byStatus[model.ReservationPending].(float64) != 1 {
		t.Errorf("pending count = %v, want 1", byStatus[model.ReservationPending])
	}
}
