package cards

import (
	"context"
	"log/slog"
	"time"
)

// Mutator issues per-card status and delete requests
type Mutator interface {
	CompleteCard(ctx context.Context, id string, at time.Time) error
	DeleteCard(ctx context.Context, id string) error
}

// Actions completes and deletes individual cards.
// Failures are logged and returned; callers decide whether to show them.
type Actions struct {
	store Mutator
	opts  options
}

// NewActions creates Actions writing to store
func NewActions(store Mutator, opts ...Option) *Actions {
	return &Actions{store: store, opts: newOptions(opts)}
}

// Complete marks a card completed now. Completing twice moves the completion time.
func (a *Actions) Complete(ctx context.Context, id string) error {
	if err := a.store.CompleteCard(ctx, id, a.opts.now()); err != nil {
		a.opts.logger.Error("failed to mark card complete",
			slog.String("card_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Delete removes a card permanently
func (a *Actions) Delete(ctx context.Context, id string) error {
	if err := a.store.DeleteCard(ctx, id); err != nil {
		a.opts.logger.Error("failed to delete card",
			slog.String("card_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
