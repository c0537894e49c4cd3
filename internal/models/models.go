package models

import "time"

// Color is the accent color of a flashcard
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
)

// Colors lists the selectable colors in display order
var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorYellow, ColorPurple}

// Valid reports whether c is one of the selectable colors
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the completion state of a flashcard
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusCompleted  Status = "completed"
)

// Identity is the authenticated user as issued by the auth provider
type Identity struct {
	ID          string
	DisplayName string
	Email       string
}

// Card represents a single flashcard
type Card struct {
	ID          string
	Title       string
	Tasks       string
	Color       Color
	DueDate     *time.Time // nil if no due date
	Status      Status
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time // set on completion only
}

// IsCompleted reports whether the card has been marked complete.
// Anything other than the completed status counts as incomplete.
func (c Card) IsCompleted() bool {
	return c.Status == StatusCompleted
}

// CardUpdate carries the mutable fields of a card
type CardUpdate struct {
	Title     string
	Tasks     string
	Color     Color
	DueDate   *time.Time
	UpdatedAt time.Time
}

// Draft is an unsaved card being edited in the form
type Draft struct {
	Title   string
	Tasks   string
	Color   Color
	DueDate *time.Time
}

// Profile is the companion record written at sign-up
type Profile struct {
	ID        string // same as Identity.ID
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}
