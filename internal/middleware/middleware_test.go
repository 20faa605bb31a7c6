// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

func requestWithUser(user *model.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if user != nil {
		ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
		r = r.WithContext(ctx)
	}
	return r
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAuth(t *testing.T) {
	next, called := okHandler()
	h := RequireAuth(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
	if *called {
		t.Error("anonymous request reached the handler")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(&model.User{ID: 1, Role: model.RoleHost}))
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated: status = %d, want 200", rec.Code)
	}
}

func TestRequireBackOffice(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{model.RoleAdmin, http.StatusOK},
		{model.RoleSubAdmin, http.StatusOK},
		{model.RoleHost, http.StatusForbidden},
		{model.RoleGuest, http.StatusForbidden},
	}
	for _, tc := range cases {
		next, _ := okHandler()
		rec := httptest.NewRecorder()
		RequireBackOffice(next).ServeHTTP(rec, requestWithUser(&model.User{ID: 1, Role: tc.role}))
		if rec.Code != tc.want {
			t.Errorf("role %s: status = %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}

func TestRequirePermission(t *testing.T) {
	gate := RequirePermission(func(p model.Permissions) bool { return p.DeleteUsers })

	// Sub-admin without the grant is rejected.
	next, called := okHandler()
	rec := httptest.NewRecorder()
	gate(next).ServeHTTP(rec, requestWithUser(&model.User{
		ID:          2,
		Role:        model.RoleSubAdmin,
		Permissions: model.Permissions{ApproveUsers: true},
	}))
	if rec.Code != http.StatusForbidden {
		t.Errorf("ungranted sub-admin: status = %d, want 403", rec.Code)
	}
	if *called {
		t.Error("ungranted sub-admin reached the handler")
	}

	// Sub-admin with the grant passes.
	next, _ = okHandler()
	rec = httptest.NewRecorder()
	gate(next).ServeHTTP(rec, requestWithUser(&model.User{
		ID:          3,
		Role:        model.RoleSubAdmin,
		Permissions: model.Permissions{DeleteUsers: true},
	}))
	if rec.Code != http.StatusOK {
		t.Errorf("granted sub-admin: status = %d, want 200", rec.Code)
	}

	// Admins pass regardless of the stored permission set.
	next, _ = okHandler()
	rec = httptest.NewRecorder()
	gate(next).ServeHTTP(rec, requestWithUser(&model.User{ID: 4, Role: model.RoleAdmin}))
	if rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}

func TestAccountLockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	email := "host@example.com"
	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d attempts, want 3", i+1)
		}
	}
	locked, dur := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("not locked after reaching the limit")
	}
	if dur != time.Minute {
		t.Errorf("first lockout duration = %v, want 1m", dur)
	}

	if isLocked, remaining := lp.IsAccountLocked(email); !isLocked || remaining <= 0 {
		t.Errorf("IsAccountLocked = %v, %v; want locked with remaining time", isLocked, remaining)
	}

	lp.RecordSuccessfulLogin(email)
	// A successful login clears failure counting for future attempts.
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("locked on first failure after successful login")
	}
}

func TestIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 1, IPBurst: 2})

	ip := "203.0.113.7"
	if !lp.CheckIPRateLimit(ip) || !lp.CheckIPRateLimit(ip) {
		t.Fatal("burst requests should be allowed")
	}
	if lp.CheckIPRateLimit(ip) {
		t.Error("request above burst should be rejected")
	}
	if !lp.CheckIPRateLimit("198.51.100.9") {
		t.Error("separate IP should have its own limiter")
	}
}

func TestSecurityHeaders(t *testing.T) {
	next, _ := okHandler()
	h := SecurityHeaders(DefaultSecurityHeadersConfig(false))(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("missing HSTS header in production mode")
	}

	// Development mode drops HSTS.
	h = SecurityHeaders(DefaultSecurityHeadersConfig(true))(next)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set in development mode: %q", got)
	}
}
