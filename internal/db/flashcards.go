package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tgienger/fcm/internal/models"
)

const flashcardColumns = `id, title, tasks, color, due_date, status, user_id, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (models.Card, error) {
	var (
		c         models.Card
		due, done sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Title, &c.Tasks, &c.Color, &due, &c.Status, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt, &done)
	if err != nil {
		return models.Card{}, err
	}
	c.DueDate = timePtr(due)
	c.CompletedAt = timePtr(done)
	return c, nil
}

// CreateFlashcard inserts a card. The caller assigns the ID.
func (db *DB) CreateFlashcard(ctx context.Context, c models.Card) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO flashcards (`+flashcardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Title, c.Tasks, c.Color, nullTime(c.DueDate), c.Status, c.OwnerID,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(), nullTime(c.CompletedAt))
	if err != nil {
		return fmt.Errorf("insert flashcard: %w", err)
	}
	return nil
}

// GetFlashcard retrieves a card by ID
func (db *DB) GetFlashcard(ctx context.Context, id string) (*models.Card, error) {
	row := db.QueryRowContext(ctx, `SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	return &c, nil
}

// ListFlashcards returns all cards owned by userID in insertion order
func (db *DB) ListFlashcards(ctx context.Context, userID string) ([]models.Card, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards
		WHERE user_id = ?
		ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateFlashcard overwrites the mutable fields of a card
func (db *DB) UpdateFlashcard(ctx context.Context, id string, u models.CardUpdate) error {
	result, err := db.ExecContext(ctx, `
		UPDATE flashcards SET title = ?, tasks = ?, color = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`, u.Title, u.Tasks, u.Color, nullTime(u.DueDate), u.UpdatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}
	return requireRow(result)
}

// CompleteFlashcard marks a card completed at the given time.
// Completing an already completed card moves its completion time.
func (db *DB) CompleteFlashcard(ctx context.Context, id string, at time.Time) error {
	result, err := db.ExecContext(ctx, `
		UPDATE flashcards SET status = ?, completed_at = ?
		WHERE id = ?
	`, models.StatusCompleted, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("complete flashcard: %w", err)
	}
	return requireRow(result)
}

// DeleteFlashcard deletes a card. Deleting a missing card is not an error.
func (db *DB) DeleteFlashcard(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM flashcards WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	return nil
}

// FlashcardOwner returns the owner of a card
func (db *DB) FlashcardOwner(ctx context.Context, id string) (string, error) {
	var owner string
	err := db.QueryRowContext(ctx, "SELECT user_id FROM flashcards WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	return owner, err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
