// Package session holds the process-wide authentication state derived from
// auth provider notifications.
package session

import (
	"sync"

	"github.com/tgienger/fcm/internal/models"
)

// Status is the lifecycle of the session
type Status int

const (
	// StatusUnknown means no provider notification has arrived yet.
	StatusUnknown Status = iota
	StatusSignedOut
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusSignedOut:
		return "signed-out"
	case StatusSignedIn:
		return "signed-in"
	default:
		return "unknown"
	}
}

// Provider delivers identity changes; nil means signed out
type Provider interface {
	Subscribe(fn func(*models.Identity)) (unsubscribe func())
}

// State is the single owner of the current identity. Only the provider
// callback installed by Start writes to it.
type State struct {
	mu       sync.Mutex
	status   Status
	identity *models.Identity
	nextSub  int
	subs     map[int]func(*models.Identity, Status)
	stop     func()
}

// New creates a State in StatusUnknown
func New() *State {
	return &State{subs: make(map[int]func(*models.Identity, Status))}
}

// Start subscribes to p. Calling Start again replaces the previous subscription.
func (s *State) Start(p Provider) {
	s.Stop()
	stop := p.Subscribe(s.apply)

	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
}

// Stop releases the provider subscription. The last known state is kept.
func (s *State) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (s *State) apply(id *models.Identity) {
	s.mu.Lock()
	if id == nil {
		s.identity = nil
		s.status = StatusSignedOut
	} else {
		cp := *id
		s.identity = &cp
		s.status = StatusSignedIn
	}
	identity, status := s.copyLocked()
	fns := make([]func(*models.Identity, Status), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity, status)
	}
}

func (s *State) copyLocked() (*models.Identity, Status) {
	if s.identity == nil {
		return nil, s.status
	}
	cp := *s.identity
	return &cp, s.status
}

// Current returns the identity (nil unless signed in) and status
func (s *State) Current() (*models.Identity, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Identity returns the current identity, or nil
func (s *State) Identity() *models.Identity {
	id, _ := s.Current()
	return id
}

// Subscribe registers fn for every state change. It is not called with the
// current state; use Current for that.
func (s *State) Subscribe(fn func(*models.Identity, Status)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
