// Package cards holds the client-side card logic: the live card collection
// of the signed-in user, the add/edit form, and per-card actions.
package cards

import (
	"context"
	"sync"

	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/session"
)

// Subscriber opens live card queries
type Subscriber interface {
	SubscribeCards(ctx context.Context, ownerID string, fn func([]models.Card)) (func(), error)
}

// Subscription keeps the latest card snapshot for the bound identity.
// Every push replaces the whole collection; nothing is merged.
type Subscription struct {
	store   Subscriber
	updates chan struct{}

	mu      sync.Mutex
	ownerID string
	gen     uint64
	cancel  func()
	cards   []models.Card
}

// NewSubscription creates an unbound subscription
func NewSubscription(store Subscriber) *Subscription {
	return &Subscription{
		store:   store,
		updates: make(chan struct{}, 1),
	}
}

// Updates is signalled after every snapshot or teardown. Signals coalesce:
// a receiver should re-read Cards rather than count signals.
func (s *Subscription) Updates() <-chan struct{} {
	return s.updates
}

// Bind points the subscription at id. A new ID replaces the live query,
// the same ID is a no-op, and nil tears down and clears the collection.
func (s *Subscription) Bind(ctx context.Context, id *models.Identity) error {
	s.mu.Lock()
	if id != nil && id.ID == s.ownerID && s.cancel != nil {
		s.mu.Unlock()
		return nil
	}
	old := s.cancel
	s.cancel = nil
	s.gen++
	gen := s.gen
	s.cards = nil
	s.ownerID = ""
	if id != nil {
		s.ownerID = id.ID
	}
	s.mu.Unlock()

	// Unsubscribe outside the lock: the store may be mid-delivery into receive.
	if old != nil {
		old()
	}
	s.signal()

	if id == nil {
		return nil
	}

	cancel, err := s.store.SubscribeCards(ctx, id.ID, func(cards []models.Card) {
		s.receive(gen, cards)
	})
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.ownerID = ""
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		// Rebound while subscribing.
		s.mu.Unlock()
		cancel()
		return nil
	}
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// Session reports the signed-in identity and its changes
type Session interface {
	Identity() *models.Identity
	Subscribe(fn func(*models.Identity, session.Status)) (unsubscribe func())
}

// Follow binds to the current identity of src and rebinds after every
// session change. Bind failures are passed to onErr. The returned func stops
// following; call Close to release the live query as well.
func (s *Subscription) Follow(ctx context.Context, src Session, onErr func(error)) (stop func()) {
	var mu sync.Mutex
	rebind := func() {
		mu.Lock()
		defer mu.Unlock()
		// Read under mu so the last rebind always sees the latest identity.
		if err := s.Bind(ctx, src.Identity()); err != nil && onErr != nil {
			onErr(err)
		}
	}

	stop = src.Subscribe(func(*models.Identity, session.Status) { rebind() })
	rebind()
	return stop
}

// Close tears down the live query
func (s *Subscription) Close() {
	_ = s.Bind(context.Background(), nil)
}

func (s *Subscription) receive(gen uint64, cards []models.Card) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.cards = cards
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// OwnerID returns the identity the subscription is bound to, or ""
func (s *Subscription) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// Cards returns the latest snapshot in arrival order
func (s *Subscription) Cards() []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Card(nil), s.cards...)
}

// Partition splits cards by status, keeping order within each half
func Partition(cards []models.Card) (incomplete, completed []models.Card) {
	for _, c := range cards {
		if c.IsCompleted() {
			completed = append(completed, c)
		} else {
			incomplete = append(incomplete, c)
		}
	}
	return incomplete, completed
}
