// Package store is the document store used by the application: the
// flashcards and users collections, with live queries that push the full
// result set to subscribers after every committed write.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/fcm/internal/db"
	"github.com/tgienger/fcm/internal/metrics"
	"github.com/tgienger/fcm/internal/models"
)

// IdentitySource reports the signed-in identity, or nil
type IdentitySource interface {
	Identity() *models.Identity
}

// Store wraps the database with live card queries
type Store struct {
	db       *db.DB
	newID    func() string
	metrics  metrics.Recorder
	logger   *slog.Logger
	identity IdentitySource

	mu      sync.Mutex
	nextSub int
	subs    map[int]*liveQuery
}

// Option configures a Store
type Option func(*Store)

// WithIDGenerator replaces the UUID generator used for new cards
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithMetrics reports writes and snapshots to rec
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Store) { s.metrics = rec }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIdentity restricts writes to records owned by the identity src reports
func WithIdentity(src IdentitySource) Option {
	return func(s *Store) { s.identity = src }
}

// New creates a store backed by database
func New(database *db.DB, opts ...Option) *Store {
	s := &Store{
		db:      database,
		newID:   uuid.NewString,
		metrics: metrics.Nop{},
		logger:  slog.Default(),
		subs:    make(map[int]*liveQuery),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// liveQuery is one subscriber of the flashcards collection filtered by owner.
// mu serializes deliveries so a subscriber never sees an older snapshot
// after a newer one.
type liveQuery struct {
	ownerID string
	fn      func([]models.Card)

	mu     sync.Mutex
	closed bool
}

// SubscribeCards opens a live query on flashcards where user_id == ownerID.
// fn receives the current result set immediately and again after every
// write affecting that owner. fn must not call back into the store.
// The returned function cancels the subscription; it is safe to call twice.
func (s *Store) SubscribeCards(ctx context.Context, ownerID string, fn func([]models.Card)) (func(), error) {
	q := &liveQuery{ownerID: ownerID, fn: fn}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = q
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()

		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
	}

	if err := s.deliver(ctx, q); err != nil {
		unsubscribe()
		return nil, models.NewStoreError("subscribe flashcards", err)
	}
	return unsubscribe, nil
}

func (s *Store) deliver(ctx context.Context, q *liveQuery) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}

	cards, err := s.db.ListFlashcards(ctx, q.ownerID)
	if err != nil {
		return err
	}
	s.metrics.RecordSnapshot(len(cards))
	q.fn(cards)
	return nil
}

// publish pushes a fresh snapshot to every live query on ownerID
func (s *Store) publish(ctx context.Context, ownerID string) {
	s.mu.Lock()
	var targets []*liveQuery
	for _, q := range s.subs {
		if q.ownerID == ownerID {
			targets = append(targets, q)
		}
	}
	s.mu.Unlock()

	// The write has already committed; a cancelled caller must not stop the push.
	ctx = context.WithoutCancel(ctx)
	for _, q := range targets {
		if err := s.deliver(ctx, q); err != nil {
			s.logger.Warn("failed to push snapshot",
				slog.String("owner_id", ownerID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Subscribers returns the number of open live queries
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// authorize checks that the signed-in identity owns records of owner.
// Without WithIdentity every write is allowed.
func (s *Store) authorize(owner string) error {
	if s.identity == nil {
		return nil
	}
	if id := s.identity.Identity(); id == nil || id.ID != owner {
		return models.ErrPermissionDenied
	}
	return nil
}

// ownedCard returns the owner of card id after checking write access
func (s *Store) ownedCard(ctx context.Context, id string) (string, error) {
	owner, err := s.db.FlashcardOwner(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.authorize(owner); err != nil {
		s.logger.Warn("write to card of another account rejected", slog.String("card_id", id))
		return "", err
	}
	return owner, nil
}

// CreateCard adds a card to flashcards and returns its store-assigned ID.
// Any ID set on c is ignored.
func (s *Store) CreateCard(ctx context.Context, c models.Card) (string, error) {
	c.ID = s.newID()
	err := s.authorize(c.OwnerID)
	if err == nil {
		err = s.db.CreateFlashcard(ctx, c)
	}
	s.metrics.RecordStoreWrite("create", err)
	if err != nil {
		return "", models.NewStoreError("create flashcard", err)
	}
	s.publish(ctx, c.OwnerID)
	return c.ID, nil
}

// UpdateCard overwrites the mutable fields of a card
func (s *Store) UpdateCard(ctx context.Context, id string, u models.CardUpdate) error {
	owner, err := s.ownedCard(ctx, id)
	if err == nil {
		err = s.db.UpdateFlashcard(ctx, id, u)
	}
	s.metrics.RecordStoreWrite("update", err)
	if err != nil {
		return models.NewStoreError("update flashcard", err)
	}
	s.publish(ctx, owner)
	return nil
}

// CompleteCard sets a card's status to completed with the given completion time
func (s *Store) CompleteCard(ctx context.Context, id string, at time.Time) error {
	owner, err := s.ownedCard(ctx, id)
	if err == nil {
		err = s.db.CompleteFlashcard(ctx, id, at)
	}
	s.metrics.RecordStoreWrite("complete", err)
	if err != nil {
		return models.NewStoreError("complete flashcard", err)
	}
	s.publish(ctx, owner)
	return nil
}

// DeleteCard removes a card. Deleting a missing card succeeds.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	owner, err := s.ownedCard(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		s.metrics.RecordStoreWrite("delete", nil)
		return nil
	}
	if err == nil {
		err = s.db.DeleteFlashcard(ctx, id)
	}
	s.metrics.RecordStoreWrite("delete", err)
	if err != nil {
		return models.NewStoreError("delete flashcard", err)
	}
	s.publish(ctx, owner)
	return nil
}

// ListCards is a one-shot read of all cards owned by ownerID
func (s *Store) ListCards(ctx context.Context, ownerID string) ([]models.Card, error) {
	cards, err := s.db.ListFlashcards(ctx, ownerID)
	if err != nil {
		return nil, models.NewStoreError("list flashcards", err)
	}
	return cards, nil
}
