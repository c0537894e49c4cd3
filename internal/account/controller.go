// Package account handles sign-in, sign-up, sign-out and account deletion.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/tgienger/fcm/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxParallelDeletes bounds the card deletion batch
const maxParallelDeletes = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthProvider is the identity backend
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (models.Identity, error)
	SignUp(ctx context.Context, email, password string) (models.Identity, error)
	SignOut(ctx context.Context) error
	UpdateDisplayName(ctx context.Context, id models.Identity, name string) error
	DeleteAccount(ctx context.Context, id models.Identity) error
	CurrentIdentity() *models.Identity
}

// Store holds the records owned by an account
type Store interface {
	ListCards(ctx context.Context, ownerID string) ([]models.Card, error)
	DeleteCard(ctx context.Context, id string) error
	SetProfile(ctx context.Context, p models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// SignUpInput is the registration form
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Controller issues account requests. Session changes arrive through the
// provider's notifications, not through return values.
type Controller struct {
	auth   AuthProvider
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewController creates a Controller
func NewController(auth AuthProvider, store Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{auth: auth, store: store, now: time.Now, logger: logger}
}

// SignIn signs in with email and password
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return models.NewAuthError(models.AuthCodeMissingFields, "Please fill in all fields")
	}
	_, err := c.auth.SignIn(ctx, email, password)
	return err
}

// ValidateSignUp applies the registration rules in order and returns the first failure
func ValidateSignUp(in SignUpInput) error {
	if in.Email == "" || in.Password == "" || in.ConfirmPassword == "" || in.FirstName == "" || in.LastName == "" {
		return models.NewValidationError("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return models.NewValidationError("Passwords do not match")
	}
	if utf8.RuneCountInString(in.Password) < 6 {
		return models.NewValidationError("Password must be at least 6 characters")
	}
	if !emailPattern.MatchString(in.Email) {
		return models.NewValidationError("Please enter a valid email address")
	}
	return nil
}

// SignUp registers a new account, names it "{first} {last}" and writes its
// profile record
func (c *Controller) SignUp(ctx context.Context, in SignUpInput) error {
	if err := ValidateSignUp(in); err != nil {
		return err
	}

	id, err := c.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return err
	}

	if err := c.auth.UpdateDisplayName(ctx, id, in.FirstName+" "+in.LastName); err != nil {
		return err
	}

	return c.store.SetProfile(ctx, models.Profile{
		ID:        id.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		CreatedAt: c.now(),
	})
}

// SignOut ends the session
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		c.logger.Error("failed to sign out", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// CurrentProfile returns the profile record of the signed-in account
func (c *Controller) CurrentProfile(ctx context.Context) (*models.Profile, error) {
	id := c.auth.CurrentIdentity()
	if id == nil {
		return nil, models.NewNotSignedInError()
	}
	return c.store.GetProfile(ctx, id.ID)
}

// DeleteAccount deletes every card of the signed-in account, then its
// profile, then the account itself. Card deletions run concurrently; if any
// fails the later steps are skipped and nothing is restored. Each step is
// safe to repeat, so the whole operation can be retried.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	id := c.auth.CurrentIdentity()
	if id == nil {
		return models.NewNotSignedInError()
	}
	log := c.logger.With(slog.String("user_id", id.ID))

	cards, err := c.store.ListCards(ctx, id.ID)
	if err != nil {
		log.Error("failed to list cards for deletion", slog.String("error", err.Error()))
		return err
	}

	var g errgroup.Group
	g.SetLimit(maxParallelDeletes)
	for _, card := range cards {
		g.Go(func() error {
			return c.store.DeleteCard(ctx, card.ID)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to delete cards", slog.Int("cards", len(cards)), slog.String("error", err.Error()))
		return models.NewStoreError("delete account cards", err)
	}

	if err := c.store.DeleteProfile(ctx, id.ID); err != nil {
		log.Error("failed to delete profile", slog.String("error", err.Error()))
		return err
	}

	if err := c.auth.DeleteAccount(ctx, *id); err != nil {
		log.Error("failed to delete account", slog.String("error", err.Error()))
		return fmt.Errorf("delete account: %w", err)
	}

	log.Info("account deleted", slog.Int("cards", len(cards)))
	return nil
}
