// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

// LoadSettings reads all settings rows and rebuilds the aggregate.
// Missing rows keep their defaults, so a fresh database works unseeded.
func (q *Queries) LoadSettings(ctx context.Context) (model.Settings, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings`)
	if err != nil {
		return model.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	var latest time.Time
	for rows.Next() {
		var key, value string
		var updatedAt time.Time
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return model.Settings{}, err
		}
		kv[key] = value
		if updatedAt.After(latest) {
			latest = updatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return model.Settings{}, err
	}

	settings := model.SettingsFromRows(kv)
	settings.UpdatedAt = latest
	return settings, nil
}

// SaveSettings persists the whole aggregate in one transaction. A partial
// save can never be observed: either every row updates or none do.
func SaveSettings(ctx context.Context, db *sql.DB, s model.Settings, updatedBy int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning settings save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for key, value := range s.Flatten() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at, updated_by)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
				updated_at = excluded.updated_at, updated_by = excluded.updated_by`,
			key, value, now, updatedBy); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings save: %w", err)
	}
	return nil
}
