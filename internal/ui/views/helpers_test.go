package views

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/fcm/internal/account"
	"github.com/tgienger/fcm/internal/models"
)

// resize gives views a terminal wide enough that nothing wraps
func resize(m tea.Model) {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
}

func typeText(m tea.Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m tea.Model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

func pressRune(m tea.Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

type fakeAuth struct {
	email    string
	password string
	signIns  int
	signUps  []account.SignUpInput
	err      error
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) error {
	f.signIns++
	f.email, f.password = email, password
	return f.err
}

func (f *fakeAuth) SignUp(_ context.Context, in account.SignUpInput) error {
	f.signUps = append(f.signUps, in)
	return f.err
}

type fakeCards struct {
	owner      string
	incomplete []models.Card
	completed  []models.Card
}

func (f *fakeCards) OwnerID() string { return f.owner }

func (f *fakeCards) Cards() []models.Card {
	return append(append([]models.Card(nil), f.incomplete...), f.completed...)
}

type fakeActions struct {
	mu        sync.Mutex
	completed []string
	deleted   []string
	err       error
}

func (f *fakeActions) Complete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, id)
	return f.err
}

func (f *fakeActions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeWriter struct {
	creates []models.Card
	updates map[string]models.CardUpdate
	err     error
}

func (w *fakeWriter) CreateCard(_ context.Context, c models.Card) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.creates = append(w.creates, c)
	return "new-card", nil
}

func (w *fakeWriter) UpdateCard(_ context.Context, id string, u models.CardUpdate) error {
	if w.err != nil {
		return w.err
	}
	if w.updates == nil {
		w.updates = map[string]models.CardUpdate{}
	}
	w.updates[id] = u
	return nil
}

type signedIn struct{ id string }

func (s signedIn) Identity() *models.Identity { return &models.Identity{ID: s.id} }

type fakeAccount struct {
	signOuts int
	deletes  int
	profile  *models.Profile
	err      error
}

func (f *fakeAccount) SignOut(context.Context) error {
	f.signOuts++
	return f.err
}

func (f *fakeAccount) DeleteAccount(context.Context) error {
	f.deletes++
	return f.err
}

func (f *fakeAccount) CurrentProfile(context.Context) (*models.Profile, error) {
	if f.profile == nil {
		return nil, models.ErrNotFound
	}
	return f.profile, nil
}
