package cards

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tgienger/fcm/internal/models"
)

// DueDateLayout is the accepted due date input format
const DueDateLayout = "2006-01-02"

// Writer issues card writes
type Writer interface {
	CreateCard(ctx context.Context, c models.Card) (string, error)
	UpdateCard(ctx context.Context, id string, u models.CardUpdate) error
}

// IdentitySource reports the signed-in identity, or nil
type IdentitySource interface {
	Identity() *models.Identity
}

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures Form and Actions
type Option func(*options)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Form turns drafts into create and update requests
type Form struct {
	store    Writer
	identity IdentitySource
	opts     options
}

// NewForm creates a Form writing to store on behalf of identity
func NewForm(store Writer, identity IdentitySource, opts ...Option) *Form {
	return &Form{store: store, identity: identity, opts: newOptions(opts)}
}

// PrepareNew returns an empty draft with default color
func (f *Form) PrepareNew() models.Draft {
	return models.Draft{Color: models.ColorBlue}
}

// PrepareEdit returns a draft seeded from an existing card
func (f *Form) PrepareEdit(c models.Card) models.Draft {
	d := models.Draft{
		Title: c.Title,
		Tasks: c.Tasks,
		Color: c.Color,
	}
	if d.Color == "" {
		d.Color = models.ColorBlue
	}
	if c.DueDate != nil {
		due := *c.DueDate
		d.DueDate = &due
	}
	return d
}

// Validate checks a draft without issuing any request
func (f *Form) Validate(d models.Draft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Tasks) == "" {
		return models.NewValidationError("Title and tasks are required")
	}
	if d.Color != "" && !d.Color.Valid() {
		return models.NewValidationError("Unknown color")
	}
	return nil
}

// Save validates d and creates a card, or updates existing when non-nil.
// It returns the card ID. Store errors are returned unmodified; the visible
// collection changes only when the store pushes the next snapshot.
func (f *Form) Save(ctx context.Context, d models.Draft, existing *models.Card) (string, error) {
	if err := f.Validate(d); err != nil {
		return "", err
	}

	color := d.Color
	if color == "" {
		color = models.ColorBlue
	}
	title := strings.TrimSpace(d.Title)
	tasks := strings.TrimSpace(d.Tasks)
	now := f.opts.now()

	if existing != nil {
		err := f.store.UpdateCard(ctx, existing.ID, models.CardUpdate{
			Title:     title,
			Tasks:     tasks,
			Color:     color,
			DueDate:   d.DueDate,
			UpdatedAt: now,
		})
		if err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	id := f.identity.Identity()
	if id == nil {
		return "", models.NewNotSignedInError()
	}

	cardID, err := f.store.CreateCard(ctx, models.Card{
		Title:     title,
		Tasks:     tasks,
		Color:     color,
		DueDate:   d.DueDate,
		Status:    models.StatusIncomplete,
		OwnerID:   id.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", err
	}
	f.opts.logger.Info("card created", slog.String("card_id", cardID), slog.String("user_id", id.ID))
	return cardID, nil
}

// ParseDueDate parses due date input. Blank input means no due date.
func ParseDueDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(DueDateLayout, text)
	if err != nil {
		return nil, models.NewValidationError("Due date must be in YYYY-MM-DD format")
	}
	return &t, nil
}

// FormatDueDate is the inverse of ParseDueDate
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DueDateLayout)
}
