// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

const userColumns = `id, email, password_hash, name, phone, role, approved,
	permissions, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var perms string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone,
		&u.Role, &u.Approved, &perms, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if err != nil {
		return model.User{}, err
	}
	if perms != "" {
		_ = json.Unmarshal([]byte(perms), &u.Permissions)
	}
	return u, nil
}

// GetUserByID returns the user with the given ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns all users, newest first. Filtering, sorting and
// pagination happen in memory via listquery so all admin list views share
// one deterministic code path.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         string
	Approved     bool
	Permissions  model.Permissions
}

// CreateUser inserts a new user and returns it.
func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (model.User, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, phone, role, approved, permissions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Email, p.PasswordHash, p.Name, p.Phone, p.Role, p.Approved,
		marshalJSON(p.Permissions, "{}"), now, now)
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading user id: %w", err)
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserParams holds the updatable user fields.
type UpdateUserParams struct {
	ID          int64
	Name        string
	Phone       string
	Role        string
	Approved    bool
	Permissions model.Permissions
}

// UpdateUser updates a user's profile, role, approval and permissions.
func (q *Queries) UpdateUser(ctx context.Context, p UpdateUserParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ?, role = ?, approved = ?, permissions = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Phone, p.Role, p.Approved, marshalJSON(p.Permissions, "{}"),
		time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", p.ID, err)
	}
	return nil
}

// SetUserApproved flips the approval gate on a user.
func (q *Queries) SetUserApproved(ctx context.Context, id int64, approved bool) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET approved = ?, updated_at = ? WHERE id = ?`,
		approved, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting approval for user %d: %w", id, err)
	}
	return nil
}

// TouchUserLogin records a successful login time.
func (q *Queries) TouchUserLogin(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

// DeleteUser removes a user. Owned properties cascade, and through them
// their reservations and messages.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return nil
}
