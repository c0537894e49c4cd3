package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/tgienger/fcm/internal/models"
)

// ErrDuplicateEmail is returned when an account with the same email exists
var ErrDuplicateEmail = errors.New("email already registered")

// Account is a credential record owned by the auth provider
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Identity returns the public view of the account
func (a *Account) Identity() models.Identity {
	return models.Identity{ID: a.ID, DisplayName: a.DisplayName, Email: a.Email}
}

// CreateAccount inserts a new account
func (db *DB) CreateAccount(ctx context.Context, a Account) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, display_name, created_at) VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.Email, a.PasswordHash, a.DisplayName, a.CreatedAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID
func (db *DB) GetAccount(ctx context.Context, id string) (*Account, error) {
	return db.getAccount(ctx, "id = ?", id)
}

// GetAccountByEmail retrieves an account by email, ignoring case
func (db *DB) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return db.getAccount(ctx, "email = ?", email)
}

func (db *DB) getAccount(ctx context.Context, where string, arg any) (*Account, error) {
	a := &Account{}
	err := db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, created_at FROM accounts WHERE `+where,
		arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// UpdateDisplayName sets the display name of an account
func (db *DB) UpdateDisplayName(ctx context.Context, id, name string) error {
	result, err := db.ExecContext(ctx, "UPDATE accounts SET display_name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return requireRow(result)
}

// DeleteAccount deletes an account
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(result)
}
