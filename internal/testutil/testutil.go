// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the oRent project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "orent-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// CreateHost inserts an approved host user for tests that need listings.
func CreateHost(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	host, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        "host@test.local",
		PasswordHash: "x",
		Name:         "Test Host",
		Role:         model.RoleHost,
		Approved:     true,
	})
	if err != nil {
		t.Fatalf("creating test host: %v", err)
	}
	return host
}

// CreateProperty inserts a visible listing owned by hostID.
func CreateProperty(t *testing.T, db *sql.DB, hostID int64, title, slug string) model.Property {
	t.Helper()

	prop, err := store.New(db).CreateProperty(context.Background(), store.CreatePropertyParams{
		Slug:         slug,
		Title:        title,
		Area:         "Business Bay",
		City:         "Dubai",
		Type:         model.PropertyTypeApartment,
		Bedrooms:     1,
		Bathrooms:    1,
		MaxGuests:    2,
		NightlyPrice: 500,
		Currency:     "AED",
		IsActive:     true,
		Approved:     true,
		HostID:       hostID,
	})
	if err != nil {
		t.Fatalf("creating test property: %v", err)
	}
	return prop
}

// CreateReservation inserts a pending reservation for the given property.
func CreateReservation(t *testing.T, db *sql.DB, propertyID int64, code string) model.Reservation {
	t.Helper()

	res, err := store.New(db).CreateReservation(context.Background(), store.CreateReservationParams{
		PropertyID:       propertyID,
		ConfirmationCode: code,
		GuestName:        "Jamie Guest",
		GuestEmail:       "jamie@test.local",
		GuestPhone:       "+971500000000",
		CheckIn:          time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:         time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Guests:           2,
		TotalAmount:      2000,
		Currency:         "AED",
	})
	if err != nil {
		t.Fatalf("creating test reservation: %v", err)
	}
	return res
}
