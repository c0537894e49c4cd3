package cards

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tgienger/fcm/internal/models"
)

// fakeStore is an in-memory card store that pushes full snapshots
type fakeStore struct {
	mu      sync.Mutex
	cards   []models.Card
	subs    map[int]fakeSub
	nextSub int
	nextID  int

	creates   []models.Card
	updates   map[string]models.CardUpdate
	completes int
	deletes   int
	err       error
}

type fakeSub struct {
	owner string
	fn    func([]models.Card)
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: map[int]fakeSub{}, updates: map[string]models.CardUpdate{}}
}

func (s *fakeStore) SubscribeCards(_ context.Context, ownerID string, fn func([]models.Card)) (func(), error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fakeSub{owner: ownerID, fn: fn}
	snap := s.snapshotLocked(ownerID)
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

func (s *fakeStore) snapshotLocked(owner string) []models.Card {
	var out []models.Card
	for _, c := range s.cards {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) publish(owner string) {
	s.mu.Lock()
	var fns []func([]models.Card)
	for _, sub := range s.subs {
		if sub.owner == owner {
			fns = append(fns, sub.fn)
		}
	}
	snap := s.snapshotLocked(owner)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// push replaces the owner's cards and publishes them, like a remote change
func (s *fakeStore) push(owner string, cards ...models.Card) {
	s.mu.Lock()
	kept := s.cards[:0:0]
	for _, c := range s.cards {
		if c.OwnerID != owner {
			kept = append(kept, c)
		}
	}
	s.cards = append(kept, cards...)
	s.mu.Unlock()
	s.publish(owner)
}

func (s *fakeStore) CreateCard(_ context.Context, c models.Card) (string, error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return "", s.err
	}
	s.nextID++
	c.ID = fmt.Sprintf("card-%d", s.nextID)
	s.creates = append(s.creates, c)
	s.cards = append(s.cards, c)
	s.mu.Unlock()
	s.publish(c.OwnerID)
	return c.ID, nil
}

func (s *fakeStore) UpdateCard(_ context.Context, id string, u models.CardUpdate) error {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	s.updates[id] = u
	owner := ""
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards[i].Title, s.cards[i].Tasks, s.cards[i].Color = u.Title, u.Tasks, u.Color
			s.cards[i].DueDate, s.cards[i].UpdatedAt = u.DueDate, u.UpdatedAt
			owner = s.cards[i].OwnerID
		}
	}
	s.mu.Unlock()
	s.publish(owner)
	return nil
}

func (s *fakeStore) CompleteCard(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	s.completes++
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	owner := ""
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards[i].Status = models.StatusCompleted
			done := at
			s.cards[i].CompletedAt = &done
			owner = s.cards[i].OwnerID
		}
	}
	s.mu.Unlock()
	s.publish(owner)
	return nil
}

func (s *fakeStore) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	s.deletes++
	if s.err != nil {
		s.mu.Unlock()
		return s.err
	}
	owner := ""
	kept := s.cards[:0:0]
	for _, c := range s.cards {
		if c.ID == id {
			owner = c.OwnerID
			continue
		}
		kept = append(kept, c)
	}
	s.cards = kept
	s.mu.Unlock()
	s.publish(owner)
	return nil
}

func (s *fakeStore) card(id string) (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return models.Card{}, false
}

func (s *fakeStore) requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creates) + len(s.updates) + s.completes + s.deletes
}

func (s *fakeStore) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type staticIdentity struct{ id *models.Identity }

func (s staticIdentity) Identity() *models.Identity { return s.id }
