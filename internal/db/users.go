package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tgienger/fcm/internal/models"
)

// SetUser writes the profile record keyed by the identity ID, replacing any previous one
func (db *DB) SetUser(ctx context.Context, p models.Profile) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			created_at = excluded.created_at
	`, p.ID, p.FirstName, p.LastName, p.Email, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

// GetUser retrieves a profile record
func (db *DB) GetUser(ctx context.Context, id string) (*models.Profile, error) {
	p := &models.Profile{}
	err := db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, created_at FROM users WHERE id = ?
	`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return p, nil
}

// DeleteUser deletes a profile record. Deleting a missing record is not an error.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
