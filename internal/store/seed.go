package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olegiv/orent-go/internal/auth"
	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/util"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates initial data in the database: the default admin plus a few
// demo listings so a fresh install has something to browse.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Check if admin user already exists
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		Role:         model.RoleAdmin,
		Approved:     true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", admin.ID,
		"email", admin.Email,
		"password", DefaultAdminPassword,
	)

	hostHash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return fmt.Errorf("hashing host password: %w", err)
	}
	host, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        "host@example.com",
		PasswordHash: hostHash,
		Name:         "Demo Host",
		Role:         model.RoleHost,
		Approved:     true,
	})
	if err != nil {
		return fmt.Errorf("creating demo host: %w", err)
	}

	demos := []CreatePropertyParams{
		{
			Title:        "City view apartment near Marina",
			Description:  "Bright two-bedroom apartment with a full **Marina skyline** view.",
			Area:         "Business Bay",
			City:         "Dubai",
			Type:         model.PropertyTypeApartment,
			Bedrooms:     2,
			Bathrooms:    2,
			MaxGuests:    4,
			NightlyPrice: 650,
		},
		{
			Title:        "Studio in Dubai Marina",
			Description:  "Compact studio a short walk from the promenade.",
			Area:         "Dubai Marina",
			City:         "Dubai",
			Type:         model.PropertyTypeStudio,
			Bedrooms:     0,
			Bathrooms:    1,
			MaxGuests:    2,
			NightlyPrice: 380,
		},
		{
			Title:        "Palm Jumeirah beach villa",
			Description:  "Five-bedroom villa with private beach access.",
			Area:         "Palm Jumeirah",
			City:         "Dubai",
			Type:         model.PropertyTypeVilla,
			Bedrooms:     5,
			Bathrooms:    6,
			MaxGuests:    10,
			NightlyPrice: 4200,
		},
	}

	for _, demo := range demos {
		demo.Slug = util.Slugify(demo.Title)
		demo.Currency = "AED"
		demo.IsActive = true
		demo.Approved = true
		demo.HostID = host.ID
		if _, err := queries.CreateProperty(ctx, demo); err != nil {
			return fmt.Errorf("creating demo property %q: %w", demo.Title, err)
		}
	}

	slog.Info("seeded demo listings", "count", len(demos), "host_id", host.ID)
	return nil
}
