// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

const propertyColumns = `id, slug, title, description, address, area, city, type,
	bedrooms, bathrooms, max_guests, nightly_price, currency, images, rating,
	is_active, approved_by_admin, featured, host_id, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }) (model.Property, error) {
	var p model.Property
	var images string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Address,
		&p.Area, &p.City, &p.Type, &p.Bedrooms, &p.Bathrooms, &p.MaxGuests,
		&p.NightlyPrice, &p.Currency, &images, &p.Rating, &p.IsActive,
		&p.ApprovedByAdmin, &p.Featured, &p.HostID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Property{}, err
	}
	p.Images = unmarshalStrings(images)
	return p, nil
}

// GetPropertyByID returns the property with the given ID.
func (q *Queries) GetPropertyByID(ctx context.Context, id int64) (model.Property, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	return scanProperty(row)
}

// GetPropertyBySlug returns the property with the given slug.
func (q *Queries) GetPropertyBySlug(ctx context.Context, slug string) (model.Property, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE slug = ?`, slug)
	return scanProperty(row)
}

// ListProperties returns all properties, newest first.
func (q *Queries) ListProperties(ctx context.Context) ([]model.Property, error) {
	return q.listProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC, id DESC`)
}

// ListVisibleProperties returns properties shown on the public site:
// active and approved by an admin.
func (q *Queries) ListVisibleProperties(ctx context.Context) ([]model.Property, error) {
	return q.listProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE is_active = 1 AND approved_by_admin = 1
		 ORDER BY featured DESC, created_at DESC, id DESC`)
}

func (q *Queries) listProperties(ctx context.Context, query string, args ...any) ([]model.Property, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// CountProperties returns the total number of properties.
func (q *Queries) CountProperties(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&n)
	return n, err
}

// CreatePropertyParams holds the fields for creating a property.
type CreatePropertyParams struct {
	Slug         string
	Title        string
	Description  string
	Address      string
	Area         string
	City         string
	Type         string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	NightlyPrice float64
	Currency     string
	Images       []string
	IsActive     bool
	Approved     bool
	HostID       int64
}

// CreateProperty inserts a new listing and returns it.
func (q *Queries) CreateProperty(ctx context.Context, p CreatePropertyParams) (model.Property, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO properties (slug, title, description, address, area, city, type,
			bedrooms, bathrooms, max_guests, nightly_price, currency, images,
			is_active, approved_by_admin, host_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Description, p.Address, p.Area, p.City, p.Type,
		p.Bedrooms, p.Bathrooms, p.MaxGuests, p.NightlyPrice, p.Currency,
		marshalJSON(p.Images, "[]"), p.IsActive, p.Approved, p.HostID, now, now)
	if err != nil {
		return model.Property{}, fmt.Errorf("creating property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Property{}, fmt.Errorf("reading property id: %w", err)
	}
	return q.GetPropertyByID(ctx, id)
}

// UpdatePropertyParams holds the updatable listing fields.
type UpdatePropertyParams struct {
	ID           int64
	Title        string
	Description  string
	Address      string
	Area         string
	City         string
	Type         string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	NightlyPrice float64
	Currency     string
	Images       []string
}

// UpdateProperty updates a listing's editable fields.
func (q *Queries) UpdateProperty(ctx context.Context, p UpdatePropertyParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE properties SET title = ?, description = ?, address = ?, area = ?,
			city = ?, type = ?, bedrooms = ?, bathrooms = ?, max_guests = ?,
			nightly_price = ?, currency = ?, images = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Description, p.Address, p.Area, p.City, p.Type,
		p.Bedrooms, p.Bathrooms, p.MaxGuests, p.NightlyPrice, p.Currency,
		marshalJSON(p.Images, "[]"), time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("updating property %d: %w", p.ID, err)
	}
	return nil
}

// SetPropertyFlag flips one of the listing's boolean flags.
// Column names are restricted to the known flag set.
func (q *Queries) SetPropertyFlag(ctx context.Context, id int64, flag string, value bool) error {
	var column string
	switch flag {
	case "active":
		column = "is_active"
	case "approved":
		column = "approved_by_admin"
	case "featured":
		column = "featured"
	default:
		return fmt.Errorf("unknown property flag %q", flag)
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE properties SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting %s on property %d: %w", flag, id, err)
	}
	return nil
}

// DeleteProperty removes a listing. Reservations and related contact
// messages cascade at the schema level.
func (q *Queries) DeleteProperty(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property %d: %w", id, err)
	}
	return nil
}
