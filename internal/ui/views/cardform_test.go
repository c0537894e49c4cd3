package views

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/fcm/internal/cards"
	"github.com/tgienger/fcm/internal/models"
)

func newFormView(w *fakeWriter, existing *models.Card) *CardFormView {
	v := NewCardFormView(cards.NewForm(w, signedIn{id: "u1"}), existing)
	resize(v)
	return v
}

func TestCardFormView_CreatesCard(t *testing.T) {
	w := &fakeWriter{}
	v := newFormView(w, nil)
	assert.Contains(t, v.View(), "Add Flashcard")

	typeText(v, "Buy milk")
	press(v, tea.KeyTab)
	typeText(v, "2% organic")
	press(v, tea.KeyTab)
	press(v, tea.KeyRight) // blue -> green
	press(v, tea.KeyTab)
	typeText(v, "2026-06-30")

	cmd := press(v, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	_, back := v.Update(cmd())

	require.Len(t, w.creates, 1)
	got := w.creates[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2% organic", got.Tasks)
	assert.Equal(t, models.ColorGreen, got.Color)
	assert.Equal(t, models.StatusIncomplete, got.Status)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, "2026-06-30", cards.FormatDueDate(got.DueDate))

	require.NotNil(t, back)
	assert.Equal(t, BackMsg{}, back())
}

func TestCardFormView_EditSeedsFields(t *testing.T) {
	due := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	existing := &models.Card{ID: "c1", Title: "Quiz", Tasks: "ch. 3", Color: models.ColorPurple, DueDate: &due}
	w := &fakeWriter{}
	v := newFormView(w, existing)

	out := v.View()
	assert.Contains(t, out, "Edit Flashcard")
	assert.Contains(t, out, "Update Flashcard")

	cmd := press(v, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	v.Update(cmd())

	u, ok := w.updates["c1"]
	require.True(t, ok)
	assert.Equal(t, "Quiz", u.Title)
	assert.Equal(t, models.ColorPurple, u.Color)
	require.NotNil(t, u.DueDate)
	assert.True(t, u.DueDate.Equal(due))
}

func TestCardFormView_BlankFieldsBlockSave(t *testing.T) {
	w := &fakeWriter{}
	v := newFormView(w, nil)

	typeText(v, "   ")
	assert.Nil(t, press(v, tea.KeyCtrlS))
	assert.Contains(t, v.View(), "Title and tasks are required")
	assert.Empty(t, w.creates)
}

func TestCardFormView_BadDueDateBlocksSave(t *testing.T) {
	w := &fakeWriter{}
	v := newFormView(w, nil)

	typeText(v, "Read")
	press(v, tea.KeyTab)
	typeText(v, "chapter 3")
	press(v, tea.KeyTab)
	press(v, tea.KeyTab)
	typeText(v, "24/12/2026")

	assert.Nil(t, press(v, tea.KeyCtrlS))
	assert.Contains(t, v.View(), "Due date must be in YYYY-MM-DD format")
	assert.Empty(t, w.creates)
}

func TestCardFormView_StoreErrorShownVerbatim(t *testing.T) {
	w := &fakeWriter{err: errors.New("missing or insufficient permissions")}
	v := newFormView(w, nil)

	typeText(v, "a")
	press(v, tea.KeyTab)
	typeText(v, "b")

	cmd := press(v, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	_, next := v.Update(cmd())

	assert.Nil(t, next, "the form stays open")
	assert.Contains(t, v.View(), "missing or insufficient permissions")
}

func TestCardFormView_EscCancels(t *testing.T) {
	v := newFormView(&fakeWriter{}, nil)
	cmd := press(v, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
